package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the durable key/value store behind the persisted app state.
// A zero TTL keeps keys forever.
type RedisKV struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	return &RedisKV{Client: client, TTL: ttl}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := kv.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	return kv.Client.Set(ctx, key, value, kv.TTL).Err()
}

func (kv *RedisKV) Delete(ctx context.Context, key string) error {
	return kv.Client.Del(ctx, key).Err()
}
