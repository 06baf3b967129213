package service

import (
	"context"
	"errors"
	"log"

	"tableorder/order-client/internal/domain"
)

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrStaleResponse   = errors.New("selected restaurant changed while fetching")
)

// Fetcher moves backend data into the store. A failed fetch notifies the user
// and leaves the document untouched; nothing is retried.
type Fetcher struct {
	store    SessionStore
	backend  Backend
	notifier Notifier
}

func NewFetcher(store SessionStore, backend Backend, notifier Notifier) *Fetcher {
	return &Fetcher{
		store:    store,
		backend:  backend,
		notifier: notifier,
	}
}

// Refresh fetches restaurant info and, once that succeeded, the menu. Both
// requests target the restaurant selected when Refresh started; if the
// selection moves in between, the menu is not requested.
func (f *Fetcher) Refresh(ctx context.Context) error {
	shopID := f.store.State().SelectedStore.ID
	if _, err := f.fetchInfo(ctx, shopID); err != nil {
		return err
	}
	if f.store.State().SelectedStore.ID != shopID {
		log.Printf("[fetcher] selection moved away from %s, skipping menu", shopID)
		return ErrStaleResponse
	}
	_, err := f.fetchMenu(ctx, shopID)
	return err
}

func (f *Fetcher) FetchRestaurantInfo(ctx context.Context) (*domain.RestaurantInfo, error) {
	return f.fetchInfo(ctx, f.store.State().SelectedStore.ID)
}

func (f *Fetcher) FetchMenu(ctx context.Context) ([]domain.MenuCategory, error) {
	return f.fetchMenu(ctx, f.store.State().SelectedStore.ID)
}

func (f *Fetcher) fetchInfo(ctx context.Context, shopID string) (*domain.RestaurantInfo, error) {
	log.Printf("[fetcher] fetching restaurant info for %s", shopID)

	info, err := f.backend.GetRestaurantInfo(ctx, shopID)
	if err != nil {
		log.Printf("[fetcher] failed to fetch restaurant info: %v", err)
		f.notifyError("Unable to fetch restaurant information")
		return nil, err
	}

	if !f.store.Dispatch(SetStoreInformation{Info: *info, ForShopID: shopID}) {
		log.Printf("[fetcher] dropping restaurant info for %s, selection changed", shopID)
		return nil, ErrStaleResponse
	}
	return info, nil
}

func (f *Fetcher) fetchMenu(ctx context.Context, shopID string) ([]domain.MenuCategory, error) {
	log.Printf("[fetcher] fetching menu for %s", shopID)

	menu, err := f.backend.GetMenu(ctx, shopID)
	if err != nil {
		log.Printf("[fetcher] failed to fetch menu: %v", err)
		f.notifyError("Unable to fetch order items")
		return nil, err
	}

	if !f.store.Dispatch(UpdateOrderItems{Menu: menu, ForShopID: shopID}) {
		log.Printf("[fetcher] dropping menu for %s, selection changed", shopID)
		return nil, ErrStaleResponse
	}
	return menu, nil
}

// FetchOrderHistory loads the table's order history into the active session.
func (f *Fetcher) FetchOrderHistory(ctx context.Context) (domain.OrderHistory, error) {
	sess := f.store.State().CurrentSession
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	history, err := f.backend.GetTableOrderHistory(ctx, sess.RestaurantID, sess.TableNumber)
	if err != nil {
		log.Printf("[fetcher] failed to fetch order history: %v", err)
		f.notifyError("Unable to fetch order history")
		return nil, err
	}

	if !f.store.SetOrderHistory(history) {
		return nil, ErrNoActiveSession
	}
	return history, nil
}

func (f *Fetcher) notifyError(title string) {
	if f.notifier == nil {
		return
	}
	f.notifier.Notify(domain.Notification{Level: domain.NotificationError, Title: title})
}
