package mocks

import (
	domain "tableorder/order-client/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// Notifier is a mock type for the Notifier type
type Notifier struct {
	mock.Mock
}

// Notify provides a mock function with given fields: n
func (_m *Notifier) Notify(n domain.Notification) {
	_m.Called(n)
}
