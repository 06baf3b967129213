package mocks

import (
	context "context"

	domain "tableorder/order-client/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// Backend is a mock type for the Backend type
type Backend struct {
	mock.Mock
}

// GetRestaurantInfo provides a mock function with given fields: ctx, shopID
func (_m *Backend) GetRestaurantInfo(ctx context.Context, shopID string) (*domain.RestaurantInfo, error) {
	ret := _m.Called(ctx, shopID)

	var r0 *domain.RestaurantInfo
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.RestaurantInfo); ok {
		r0 = rf(ctx, shopID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.RestaurantInfo)
	}

	return r0, ret.Error(1)
}

// GetMenu provides a mock function with given fields: ctx, shopID
func (_m *Backend) GetMenu(ctx context.Context, shopID string) ([]domain.MenuCategory, error) {
	ret := _m.Called(ctx, shopID)

	var r0 []domain.MenuCategory
	if rf, ok := ret.Get(0).(func(context.Context, string) []domain.MenuCategory); ok {
		r0 = rf(ctx, shopID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuCategory)
	}

	return r0, ret.Error(1)
}

// GetTableOrderHistory provides a mock function with given fields: ctx, shopID, tableNumber
func (_m *Backend) GetTableOrderHistory(ctx context.Context, shopID string, tableNumber string) (domain.OrderHistory, error) {
	ret := _m.Called(ctx, shopID, tableNumber)

	var r0 domain.OrderHistory
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domain.OrderHistory)
	}

	return r0, ret.Error(1)
}

// SendOrder provides a mock function with given fields: ctx, order
func (_m *Backend) SendOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	ret := _m.Called(ctx, order)

	var r0 *domain.OrderResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.OrderResponse)
	}

	return r0, ret.Error(1)
}
