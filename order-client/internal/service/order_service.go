package service

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"tableorder/order-client/internal/domain"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

type OrderService struct {
	store     SessionStore
	backend   Backend
	notifier  Notifier
	publisher OrderPublisher
	now       func() time.Time
	inFlight  atomic.Bool
}

func NewOrderService(store SessionStore, backend Backend, notifier Notifier, publisher OrderPublisher) *OrderService {
	return &OrderService{
		store:     store,
		backend:   backend,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Now,
	}
}

// Checkout submits the active session's cart. On success the cart becomes
// ordered items of the session. The cart is cleared afterwards either way.
func (s *OrderService) Checkout(ctx context.Context) (*domain.OrderResponse, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	defer s.inFlight.Store(false)

	state := s.store.State()
	sess := state.CurrentSession
	if sess == nil || sess.RestaurantID == "" || sess.TableNumber == "" {
		s.notify(domain.NotificationError, "Error during checkout creation", "Missing informations")
		return nil, ErrNoActiveSession
	}
	if len(sess.ShoppingCart) == 0 {
		s.notify(domain.NotificationError, "Error during checkout creation", "Cart is empty")
		return nil, ErrEmptyCart
	}

	cart := sess.ShoppingCart
	order := PrepareOrderRequest(cart, state.PersonCount, sess.RestaurantID, sess.TableNumber)

	resp, err := s.backend.SendOrder(ctx, order)
	if err != nil {
		log.Printf("[order] failed to send order for table %s: %v", order.TableNum, err)
		s.notify(domain.NotificationError, "Order failed", "Please try again later")
	} else {
		log.Printf("[order] order placed for table %s: %s", order.TableNum, resp.Msg)
		s.notify(domain.NotificationSuccess, "Order placed", resp.Msg)
		s.store.AddCartToSession(cart)
		s.publish(ctx, order)
	}

	s.store.ClearCart()
	return resp, err
}

func (s *OrderService) publish(ctx context.Context, order domain.OrderRequest) {
	if s.publisher == nil {
		return
	}
	event := domain.OrderEvent{
		Type:         "order_placed",
		RestaurantID: order.ShopID,
		TableNumber:  order.TableNum,
		IDs:          order.IDs,
		Nums:         order.Nums,
		PersonCount:  order.PersonCount,
		Timestamp:    s.now(),
	}
	if err := s.publisher.PublishOrder(ctx, event); err != nil {
		log.Printf("[order] WARNING: failed to publish order event: %v", err)
	}
}

func (s *OrderService) notify(level domain.NotificationLevel, title, detail string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(domain.Notification{Level: level, Title: title, Detail: detail})
}
