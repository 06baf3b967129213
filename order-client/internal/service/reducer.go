package service

import (
	"log"
	"time"

	"tableorder/order-client/internal/domain"

	"github.com/google/uuid"
)

const previousItemsLimit = 2

var DefaultPersonCount = domain.PersonCount{Adults: 4, Children: 4}

type IDGenerator interface {
	Next() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) Next() string {
	return uuid.NewString()
}

// Reducer maps (document, action) to a new document. It never mutates the
// document it is given.
type Reducer struct {
	DefaultShopID string
	Now           func() time.Time
	IDs           IDGenerator
}

func NewReducer(defaultShopID string) Reducer {
	return Reducer{
		DefaultShopID: defaultShopID,
		Now:           time.Now,
		IDs:           UUIDGenerator{},
	}
}

func InitialState(defaultShopID string) domain.State {
	return domain.State{
		SelectedStore: domain.SelectedStore{ID: defaultShopID},
		PersonCount:   DefaultPersonCount,
		Favorites:     domain.Favorites{},
	}
}

// Reduce applies the action. The boolean reports whether the document
// changed; when it is false the returned document is the input.
func (r Reducer) Reduce(s domain.State, action Action) (domain.State, bool) {
	switch a := action.(type) {
	case SelectStore:
		next := s
		next.SelectedStore.ID = a.ShopID
		return next, true

	case SetStoreInformation:
		if a.ForShopID != "" && a.ForShopID != s.SelectedStore.ID {
			return s, false
		}
		info := a.Info
		next := s
		next.SelectedStore.Info = &info
		return next, true

	case StartSession:
		next := s
		next.CurrentSession = &domain.RestaurantSession{
			RestaurantID: s.SelectedStore.ID,
			TableNumber:  a.TableNumber,
			SessionStart: r.Now(),
			ShoppingCart: domain.ShoppingCart{},
			OrderedItems: map[string]domain.OrderedItem{},
		}
		return next, true

	case ClearSessionWithoutSave:
		if s.CurrentSession == nil {
			return s, false
		}
		next := s
		next.CurrentSession = nil
		return next, true

	case EndSession:
		return r.endSession(s)

	case UpdateOrderItems:
		return r.updateOrderItems(s, a)

	case AddItemToCart:
		return withSession(s, func(sess *domain.RestaurantSession) bool {
			cart := cloneCart(sess.ShoppingCart)
			cart[a.ItemID]++
			sess.ShoppingCart = cart
			return true
		})

	case RemoveItemFromCart:
		return withSession(s, func(sess *domain.RestaurantSession) bool {
			count, ok := sess.ShoppingCart[a.ItemID]
			if !ok {
				return false
			}
			cart := cloneCart(sess.ShoppingCart)
			if count > 1 {
				cart[a.ItemID] = count - 1
			} else {
				delete(cart, a.ItemID)
			}
			sess.ShoppingCart = cart
			return true
		})

	case DeleteItemFromCart:
		return withSession(s, func(sess *domain.RestaurantSession) bool {
			if _, ok := sess.ShoppingCart[a.ItemID]; !ok {
				return false
			}
			cart := cloneCart(sess.ShoppingCart)
			delete(cart, a.ItemID)
			sess.ShoppingCart = cart
			return true
		})

	case ClearCart:
		return withSession(s, func(sess *domain.RestaurantSession) bool {
			sess.ShoppingCart = domain.ShoppingCart{}
			return true
		})

	case AddCartToSession:
		return withSession(s, func(sess *domain.RestaurantSession) bool {
			ordered := cloneOrderedItems(sess.OrderedItems)
			added := 0
			for _, itemID := range SortedItemIDs(a.Cart) {
				for i := 0; i < a.Cart[itemID]; i++ {
					id := r.IDs.Next()
					ordered[id] = domain.OrderedItem{ID: id, ItemID: itemID}
					added++
				}
			}
			if added == 0 {
				return false
			}
			sess.OrderedItems = ordered
			return true
		})

	case SetItemReceived:
		return withSession(s, func(sess *domain.RestaurantSession) bool {
			item, ok := sess.OrderedItems[a.OrderedItemID]
			if !ok {
				return false
			}
			ordered := cloneOrderedItems(sess.OrderedItems)
			item.Received = a.Received
			ordered[a.OrderedItemID] = item
			sess.OrderedItems = ordered
			return true
		})

	case SetItemInFavorites:
		return setItemInFavorites(s, a)

	case ClearFavorites:
		next := s
		next.Favorites = domain.Favorites{}
		return next, true

	case ResetAll:
		return InitialState(r.DefaultShopID), true

	case SetPersonCount:
		if a.Count.Adults < 0 || a.Count.Children < 0 {
			return s, false
		}
		next := s
		next.PersonCount = a.Count
		return next, true

	case SetOrderHistory:
		return withSession(s, func(sess *domain.RestaurantSession) bool {
			sess.OrderHistory = append(domain.OrderHistory(nil), a.History...)
			return true
		})

	case Hydrate:
		return normalize(a.State), true
	}

	log.Printf("[reducer] WARNING: unknown action %T", action)
	return s, false
}

func (r Reducer) endSession(s domain.State) (domain.State, bool) {
	if s.CurrentSession == nil || s.Menu == nil {
		return s, false
	}
	sess := s.CurrentSession

	menuItems := make(map[string]domain.MenuItem)
	for _, category := range s.Menu {
		for _, item := range category.Items {
			menuItems[item.ID] = item
		}
	}

	details := make(map[string]domain.SavedMenuItem)
	for _, ordered := range sess.OrderedItems {
		if item, ok := menuItems[ordered.ItemID]; ok {
			details[ordered.ItemID] = item.Saved()
		}
	}

	past := domain.PastRestaurantSession{
		RestaurantID: sess.RestaurantID,
		TableNumber:  sess.TableNumber,
		SessionStart: sess.SessionStart,
		SessionEnd:   r.Now(),
		OrderedItems: cloneOrderedItems(sess.OrderedItems),
		ItemDetails:  details,
	}

	next := s
	next.PastSessions = append(append([]domain.PastRestaurantSession(nil), s.PastSessions...), past)
	next.CurrentSession = nil
	next.Menu = nil
	next.PersonCount = DefaultPersonCount
	return next, true
}

func (r Reducer) updateOrderItems(s domain.State, a UpdateOrderItems) (domain.State, bool) {
	if a.ForShopID != "" && a.ForShopID != s.SelectedStore.ID {
		return s, false
	}

	next := s
	if s.Menu != nil && MenuItemSetsDiffer(s.Menu, a.Menu) {
		log.Printf("[reducer] menu item set changed, capturing previous items")
		var saved []domain.SavedMenuItem
		for _, category := range s.Menu {
			for _, item := range category.Items {
				if len(saved) == previousItemsLimit {
					break
				}
				saved = append(saved, item.Saved())
			}
		}
		next.PreviousMenuItems = &domain.PreviousMenuItems{
			Items:       saved,
			LastUpdated: r.Now(),
		}
	}

	next.Menu = cloneMenu(a.Menu)
	return next, true
}

func setItemInFavorites(s domain.State, a SetItemInFavorites) (domain.State, bool) {
	if s.CurrentSession == nil || s.CurrentSession.RestaurantID == "" {
		return s, false
	}
	shopID := s.CurrentSession.RestaurantID
	current := s.Favorites[shopID]

	index := -1
	for i, id := range current {
		if id == a.ItemID {
			index = i
			break
		}
	}

	var updated []string
	switch {
	case a.Favorite && index >= 0, !a.Favorite && index < 0:
		return s, false
	case a.Favorite:
		updated = append(append([]string(nil), current...), a.ItemID)
	default:
		updated = append(append([]string(nil), current[:index]...), current[index+1:]...)
	}

	favorites := make(domain.Favorites, len(s.Favorites)+1)
	for k, v := range s.Favorites {
		favorites[k] = v
	}
	if len(updated) == 0 {
		delete(favorites, shopID)
	} else {
		favorites[shopID] = updated
	}

	next := s
	next.Favorites = favorites
	return next, true
}

// withSession runs fn on a copy of the active session and installs the copy
// when fn reports a change.
func withSession(s domain.State, fn func(*domain.RestaurantSession) bool) (domain.State, bool) {
	if s.CurrentSession == nil {
		return s, false
	}
	sess := *s.CurrentSession
	if !fn(&sess) {
		return s, false
	}
	next := s
	next.CurrentSession = &sess
	return next, true
}

func cloneCart(cart domain.ShoppingCart) domain.ShoppingCart {
	out := make(domain.ShoppingCart, len(cart)+1)
	for k, v := range cart {
		out[k] = v
	}
	return out
}

func cloneOrderedItems(items map[string]domain.OrderedItem) map[string]domain.OrderedItem {
	out := make(map[string]domain.OrderedItem, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out
}

func cloneMenu(menu []domain.MenuCategory) []domain.MenuCategory {
	if menu == nil {
		return nil
	}
	out := make([]domain.MenuCategory, len(menu))
	for i, category := range menu {
		out[i] = category
		out[i].Items = append([]domain.MenuItem(nil), category.Items...)
	}
	return out
}

// normalize fills nil maps of a document decoded from storage.
func normalize(s domain.State) domain.State {
	if s.Favorites == nil {
		s.Favorites = domain.Favorites{}
	}
	if sess := s.CurrentSession; sess != nil {
		copied := *sess
		if copied.ShoppingCart == nil {
			copied.ShoppingCart = domain.ShoppingCart{}
		}
		if copied.OrderedItems == nil {
			copied.OrderedItems = map[string]domain.OrderedItem{}
		}
		s.CurrentSession = &copied
	}
	return s
}
