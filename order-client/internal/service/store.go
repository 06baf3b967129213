package service

import (
	"sync"

	"tableorder/order-client/internal/domain"
)

// Store holds the current session document. Every dispatch replaces the
// document wholesale; snapshots returned by State must be treated as
// read-only.
type Store struct {
	mu        sync.RWMutex
	reducer   Reducer
	state     domain.State
	listeners []func(domain.State)
}

func NewStore(reducer Reducer) *Store {
	return &Store{
		reducer: reducer,
		state:   InitialState(reducer.DefaultShopID),
	}
}

func (s *Store) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies the action and reports whether it changed the document.
// Listeners run under the store lock, in dispatch order, and must not
// dispatch themselves.
func (s *Store) Dispatch(action Action) bool {
	_, applied := s.Apply(action)
	return applied
}

// Apply is Dispatch that also returns the document the action produced.
func (s *Store) Apply(action Action) (domain.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied := s.reducer.Reduce(s.state, action)
	if !applied {
		return s.state, false
	}
	s.state = next
	for _, fn := range s.listeners {
		fn(next)
	}
	return next, true
}

func (s *Store) Subscribe(fn func(domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) SelectStore(shopID string) bool {
	return s.Dispatch(SelectStore{ShopID: shopID})
}

func (s *Store) SetStoreInformation(info domain.RestaurantInfo) bool {
	return s.Dispatch(SetStoreInformation{Info: info})
}

func (s *Store) StartSession(tableNumber string) bool {
	return s.Dispatch(StartSession{TableNumber: tableNumber})
}

func (s *Store) ClearSessionWithoutSave() bool {
	return s.Dispatch(ClearSessionWithoutSave{})
}

func (s *Store) EndSession() bool {
	return s.Dispatch(EndSession{})
}

func (s *Store) UpdateOrderItems(menu []domain.MenuCategory) bool {
	return s.Dispatch(UpdateOrderItems{Menu: menu})
}

func (s *Store) AddItemToCart(itemID string) bool {
	return s.Dispatch(AddItemToCart{ItemID: itemID})
}

func (s *Store) RemoveItemFromCart(itemID string) bool {
	return s.Dispatch(RemoveItemFromCart{ItemID: itemID})
}

func (s *Store) DeleteItemFromCart(itemID string) bool {
	return s.Dispatch(DeleteItemFromCart{ItemID: itemID})
}

func (s *Store) ClearCart() bool {
	return s.Dispatch(ClearCart{})
}

func (s *Store) AddCartToSession(cart domain.ShoppingCart) bool {
	return s.Dispatch(AddCartToSession{Cart: cart})
}

func (s *Store) SetItemReceived(orderedItemID string, received bool) bool {
	return s.Dispatch(SetItemReceived{OrderedItemID: orderedItemID, Received: received})
}

func (s *Store) SetItemInFavorites(itemID string, favorite bool) bool {
	return s.Dispatch(SetItemInFavorites{ItemID: itemID, Favorite: favorite})
}

func (s *Store) ClearFavorites() bool {
	return s.Dispatch(ClearFavorites{})
}

func (s *Store) ResetAll() bool {
	return s.Dispatch(ResetAll{})
}

func (s *Store) SetPersonCount(count domain.PersonCount) bool {
	return s.Dispatch(SetPersonCount{Count: count})
}

func (s *Store) SetOrderHistory(history domain.OrderHistory) bool {
	return s.Dispatch(SetOrderHistory{History: history})
}
