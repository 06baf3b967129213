package service

import "tableorder/order-client/internal/domain"

// Action is a named transition of the session document. Apply one with
// Reducer.Reduce or Store.Dispatch.
type Action interface {
	actionName() string
}

type SelectStore struct {
	ShopID string
}

// SetStoreInformation replaces the fetched restaurant info. When ForShopID is
// set the action only applies while that shop is still selected.
type SetStoreInformation struct {
	Info      domain.RestaurantInfo
	ForShopID string
}

type StartSession struct {
	TableNumber string
}

type ClearSessionWithoutSave struct{}

type EndSession struct{}

// UpdateOrderItems replaces the live menu. ForShopID fences the update the
// same way as SetStoreInformation.
type UpdateOrderItems struct {
	Menu      []domain.MenuCategory
	ForShopID string
}

type AddItemToCart struct {
	ItemID string
}

type RemoveItemFromCart struct {
	ItemID string
}

type DeleteItemFromCart struct {
	ItemID string
}

type ClearCart struct{}

type AddCartToSession struct {
	Cart domain.ShoppingCart
}

type SetItemReceived struct {
	OrderedItemID string
	Received      bool
}

type SetItemInFavorites struct {
	ItemID   string
	Favorite bool
}

type ClearFavorites struct{}

type ResetAll struct{}

type SetPersonCount struct {
	Count domain.PersonCount
}

type SetOrderHistory struct {
	History domain.OrderHistory
}

// Hydrate replaces the whole document with one restored from storage.
type Hydrate struct {
	State domain.State
}

func (SelectStore) actionName() string             { return "selectStore" }
func (SetStoreInformation) actionName() string     { return "setStoreInformation" }
func (StartSession) actionName() string            { return "startSession" }
func (ClearSessionWithoutSave) actionName() string { return "clearSessionWithoutSave" }
func (EndSession) actionName() string              { return "endSession" }
func (UpdateOrderItems) actionName() string        { return "updateOrderItems" }
func (AddItemToCart) actionName() string           { return "addItemToCart" }
func (RemoveItemFromCart) actionName() string      { return "removeItemFromCart" }
func (DeleteItemFromCart) actionName() string      { return "deleteItemFromCart" }
func (ClearCart) actionName() string               { return "clearCart" }
func (AddCartToSession) actionName() string        { return "addCartToSession" }
func (SetItemReceived) actionName() string         { return "setItemReceived" }
func (SetItemInFavorites) actionName() string      { return "setItemInFavorites" }
func (ClearFavorites) actionName() string          { return "clearFavorites" }
func (ResetAll) actionName() string                { return "resetAll" }
func (SetPersonCount) actionName() string          { return "setPersonCount" }
func (SetOrderHistory) actionName() string         { return "setOrderHistory" }
func (Hydrate) actionName() string                 { return "hydrate" }

// ActionName returns the transition name used in logs.
func ActionName(a Action) string {
	return a.actionName()
}
