package storage

import "tableorder/order-client/internal/service"

var (
	_ service.KV             = (*RedisKV)(nil)
	_ service.SessionArchive = (*PostgresArchive)(nil)
	_ service.OrderPublisher = (*KafkaPublisher)(nil)
)
