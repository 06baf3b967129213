package service

import (
	"context"

	"tableorder/order-client/internal/domain"
)

type Backend interface {
	GetRestaurantInfo(ctx context.Context, shopID string) (*domain.RestaurantInfo, error)
	GetMenu(ctx context.Context, shopID string) ([]domain.MenuCategory, error)
	GetTableOrderHistory(ctx context.Context, shopID, tableNumber string) (domain.OrderHistory, error)
	SendOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error)
}

type Notifier interface {
	Notify(n domain.Notification)
}

type SessionArchive interface {
	SaveSession(ctx context.Context, session domain.PastRestaurantSession) error
	ListSessions(ctx context.Context, restaurantID string) ([]domain.PastRestaurantSession, error)
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type TableQRGenerator interface {
	Generate(tableNumber string) ([]byte, error)
}

// SessionStore is the transition interface of the session document.
type SessionStore interface {
	State() domain.State
	Dispatch(action Action) bool
	Apply(action Action) (domain.State, bool)
	Subscribe(fn func(domain.State))

	SelectStore(shopID string) bool
	SetStoreInformation(info domain.RestaurantInfo) bool
	StartSession(tableNumber string) bool
	ClearSessionWithoutSave() bool
	EndSession() bool
	UpdateOrderItems(menu []domain.MenuCategory) bool
	AddItemToCart(itemID string) bool
	RemoveItemFromCart(itemID string) bool
	DeleteItemFromCart(itemID string) bool
	ClearCart() bool
	AddCartToSession(cart domain.ShoppingCart) bool
	SetItemReceived(orderedItemID string, received bool) bool
	SetItemInFavorites(itemID string, favorite bool) bool
	ClearFavorites() bool
	ResetAll() bool
	SetPersonCount(count domain.PersonCount) bool
	SetOrderHistory(history domain.OrderHistory) bool
}

type FetcherInterface interface {
	Refresh(ctx context.Context) error
	FetchRestaurantInfo(ctx context.Context) (*domain.RestaurantInfo, error)
	FetchMenu(ctx context.Context) ([]domain.MenuCategory, error)
	FetchOrderHistory(ctx context.Context) (domain.OrderHistory, error)
}

type OrderServiceInterface interface {
	Checkout(ctx context.Context) (*domain.OrderResponse, error)
}

type SessionServiceInterface interface {
	StartSession(tableNumber string) error
	StartSessionFromQRCode(data string) (string, error)
	EndSession(ctx context.Context) (*domain.PastRestaurantSession, error)
	PastSessions(ctx context.Context, restaurantID string) ([]domain.PastRestaurantSession, error)
}

var (
	_ SessionStore            = (*Store)(nil)
	_ FetcherInterface        = (*Fetcher)(nil)
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ SessionServiceInterface = (*SessionService)(nil)
	_ TableQRGenerator        = DefaultTableQRGenerator{}
)
