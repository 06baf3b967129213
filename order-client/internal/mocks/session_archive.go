package mocks

import (
	context "context"

	domain "tableorder/order-client/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// SessionArchive is a mock type for the SessionArchive type
type SessionArchive struct {
	mock.Mock
}

// SaveSession provides a mock function with given fields: ctx, session
func (_m *SessionArchive) SaveSession(ctx context.Context, session domain.PastRestaurantSession) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

// ListSessions provides a mock function with given fields: ctx, restaurantID
func (_m *SessionArchive) ListSessions(ctx context.Context, restaurantID string) ([]domain.PastRestaurantSession, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 []domain.PastRestaurantSession
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.PastRestaurantSession)
	}

	return r0, ret.Error(1)
}
