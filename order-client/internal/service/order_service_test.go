package service_test

import (
	"context"
	"errors"
	"testing"

	"tableorder/order-client/internal/domain"
	"tableorder/order-client/internal/mocks"
	"tableorder/order-client/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storeWithCart(cart domain.ShoppingCart) *service.Store {
	store := newTestStore()
	store.StartSession("B20")
	for id, count := range cart {
		for i := 0; i < count; i++ {
			store.AddItemToCart(id)
		}
	}
	return store
}

func TestOrderService_CheckoutSuccess(t *testing.T) {
	backend := new(mocks.Backend)
	notifier := new(mocks.Notifier)
	publisher := new(mocks.OrderPublisher)
	store := storeWithCart(domain.ShoppingCart{"itemA": 2, "itemB": 1})
	svc := service.NewOrderService(store, backend, notifier, publisher)

	want := domain.OrderRequest{
		ShopID:      "323",
		IDs:         []string{"itemA", "itemB"},
		Nums:        []string{"2", "1"},
		TableNum:    "B20",
		PersonCount: 8,
		Adult:       4,
		Child:       4,
	}
	backend.On("SendOrder", mock.Anything, want).Return(&domain.OrderResponse{Code: "0", Msg: "Order sent to kitchen"}, nil).Once()
	notifier.On("Notify", domain.Notification{Level: domain.NotificationSuccess, Title: "Order placed", Detail: "Order sent to kitchen"}).Once()
	publisher.On("PublishOrder", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == "order_placed" && e.RestaurantID == "323" && e.TableNumber == "B20" &&
			assert.ObjectsAreEqual(want.IDs, e.IDs) && assert.ObjectsAreEqual(want.Nums, e.Nums)
	})).Return(nil).Once()

	resp, err := svc.Checkout(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Order sent to kitchen", resp.Msg)

	sess := store.State().CurrentSession
	assert.Empty(t, sess.ShoppingCart)
	assert.Len(t, sess.OrderedItems, 3)
	backend.AssertExpectations(t)
	notifier.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CheckoutBackendFailure(t *testing.T) {
	backend := new(mocks.Backend)
	notifier := new(mocks.Notifier)
	publisher := new(mocks.OrderPublisher)
	store := storeWithCart(domain.ShoppingCart{"1": 1})
	svc := service.NewOrderService(store, backend, notifier, publisher)

	backend.On("SendOrder", mock.Anything, mock.AnythingOfType("domain.OrderRequest")).Return(nil, errors.New("connection reset")).Once()
	notifier.On("Notify", domain.Notification{Level: domain.NotificationError, Title: "Order failed", Detail: "Please try again later"}).Once()

	resp, err := svc.Checkout(context.Background())

	assert.Error(t, err)
	assert.Nil(t, resp)
	sess := store.State().CurrentSession
	assert.Empty(t, sess.ShoppingCart, "the cart is cleared even when the order failed")
	assert.Empty(t, sess.OrderedItems)
	publisher.AssertNotCalled(t, "PublishOrder", mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestOrderService_CheckoutPreconditions(t *testing.T) {
	tests := []struct {
		name      string
		store     func() *service.Store
		setupMock func(*mocks.Notifier)
		wantErr   error
	}{
		{
			name:  "no session",
			store: newTestStore,
			setupMock: func(n *mocks.Notifier) {
				n.On("Notify", domain.Notification{Level: domain.NotificationError, Title: "Error during checkout creation", Detail: "Missing informations"}).Once()
			},
			wantErr: service.ErrNoActiveSession,
		},
		{
			name:  "empty cart",
			store: func() *service.Store { return storeWithCart(nil) },
			setupMock: func(n *mocks.Notifier) {
				n.On("Notify", domain.Notification{Level: domain.NotificationError, Title: "Error during checkout creation", Detail: "Cart is empty"}).Once()
			},
			wantErr: service.ErrEmptyCart,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			backend := new(mocks.Backend)
			notifier := new(mocks.Notifier)
			svc := service.NewOrderService(testCase.store(), backend, notifier, nil)

			testCase.setupMock(notifier)

			_, err := svc.Checkout(context.Background())

			assert.ErrorIs(t, err, testCase.wantErr)
			backend.AssertNotCalled(t, "SendOrder", mock.Anything, mock.Anything)
			notifier.AssertExpectations(t)
		})
	}
}

func TestOrderService_RejectsConcurrentCheckout(t *testing.T) {
	backend := new(mocks.Backend)
	store := storeWithCart(domain.ShoppingCart{"1": 1})
	svc := service.NewOrderService(store, backend, nil, nil)

	release := make(chan struct{})
	entered := make(chan struct{})
	backend.On("SendOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&domain.OrderResponse{Msg: "ok"}, nil).Once()

	done := make(chan error)
	go func() {
		_, err := svc.Checkout(context.Background())
		done <- err
	}()

	<-entered
	_, err := svc.Checkout(context.Background())
	assert.ErrorIs(t, err, service.ErrCheckoutInProgress)

	close(release)
	assert.NoError(t, <-done)
	backend.AssertExpectations(t)
}

func TestOrderService_PublishFailureDoesNotFailCheckout(t *testing.T) {
	backend := new(mocks.Backend)
	publisher := new(mocks.OrderPublisher)
	store := storeWithCart(domain.ShoppingCart{"1": 1})
	svc := service.NewOrderService(store, backend, nil, publisher)

	backend.On("SendOrder", mock.Anything, mock.Anything).Return(&domain.OrderResponse{Msg: "ok"}, nil).Once()
	publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := svc.Checkout(context.Background())

	assert.NoError(t, err)
	assert.Len(t, store.State().CurrentSession.OrderedItems, 1)
	publisher.AssertExpectations(t)
}
