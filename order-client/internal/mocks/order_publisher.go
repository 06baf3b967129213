package mocks

import (
	context "context"

	domain "tableorder/order-client/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// OrderPublisher is a mock type for the OrderPublisher type
type OrderPublisher struct {
	mock.Mock
}

// PublishOrder provides a mock function with given fields: ctx, event
func (_m *OrderPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}
