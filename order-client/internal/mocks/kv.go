package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// KV is a mock type for the KV type
type KV struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, key
func (_m *KV) Get(ctx context.Context, key string) (string, bool, error) {
	ret := _m.Called(ctx, key)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

// Set provides a mock function with given fields: ctx, key, value
func (_m *KV) Set(ctx context.Context, key string, value string) error {
	ret := _m.Called(ctx, key, value)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, key
func (_m *KV) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}
