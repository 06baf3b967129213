package service

import (
	"strconv"
	"strings"

	"tableorder/order-client/internal/domain"
)

func CartItemCount(s domain.State) int {
	if s.CurrentSession == nil {
		return 0
	}
	total := 0
	for _, count := range s.CurrentSession.ShoppingCart {
		total += count
	}
	return total
}

func IsItemInCart(s domain.State, itemID string) bool {
	if itemID == "" || s.CurrentSession == nil {
		return false
	}
	return s.CurrentSession.ShoppingCart[itemID] > 0
}

func IsItemFavorite(s domain.State, itemID string) bool {
	if itemID == "" || s.CurrentSession == nil || s.CurrentSession.RestaurantID == "" {
		return false
	}
	for _, id := range s.Favorites[s.CurrentSession.RestaurantID] {
		if id == itemID {
			return true
		}
	}
	return false
}

func IsItemReceived(s domain.State, orderedItemID string) bool {
	if orderedItemID == "" || s.CurrentSession == nil {
		return false
	}
	return s.CurrentSession.OrderedItems[orderedItemID].Received
}

// OrderProgress is nil without an active session.
func OrderProgress(s domain.State) *domain.OrderProgress {
	if s.CurrentSession == nil {
		return nil
	}

	size := len(s.CurrentSession.OrderedItems)
	if size == 0 {
		return &domain.OrderProgress{}
	}

	received := 0
	for _, item := range s.CurrentSession.OrderedItems {
		if item.Received {
			received++
		}
	}

	return &domain.OrderProgress{
		Progress: float64(received) / float64(size),
		Received: received,
		Size:     size,
	}
}

func FindMenuItemByID(menu []domain.MenuCategory, itemID string) *domain.MenuItem {
	if itemID == "" {
		return nil
	}
	for _, category := range menu {
		for i := range category.Items {
			if category.Items[i].ID == itemID {
				item := category.Items[i]
				return &item
			}
		}
	}
	return nil
}

// IsItemNew reports whether the item is in the previous-items snapshot.
func IsItemNew(s domain.State, itemID string) bool {
	if s.PreviousMenuItems == nil {
		return false
	}
	for _, item := range s.PreviousMenuItems.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

func IsItemFree(item domain.MenuItem) bool {
	cost, err := strconv.ParseFloat(strings.TrimSpace(string(item.Cost)), 64)
	if err != nil {
		return false
	}
	return cost == 0
}

// FilterMenu keeps items whose name or product code contains query, case
// insensitively. Categories left without items are dropped.
func FilterMenu(menu []domain.MenuCategory, query string) []domain.MenuCategory {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return menu
	}

	filtered := []domain.MenuCategory{}
	for _, category := range menu {
		var items []domain.MenuItem
		for _, item := range category.Items {
			if strings.Contains(strings.ToLower(item.Name), query) ||
				strings.Contains(strings.ToLower(item.ProductID), query) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			filtered = append(filtered, domain.MenuCategory{ID: category.ID, Name: category.Name, Items: items})
		}
	}
	return filtered
}

// CartLines joins the cart with the live menu in order-request order. Items
// missing from the menu are skipped.
func CartLines(s domain.State) []domain.CartLine {
	lines := []domain.CartLine{}
	if s.CurrentSession == nil {
		return lines
	}
	for _, id := range SortedItemIDs(s.CurrentSession.ShoppingCart) {
		item := FindMenuItemByID(s.Menu, id)
		if item == nil {
			continue
		}
		lines = append(lines, domain.CartLine{Item: *item, Count: s.CurrentSession.ShoppingCart[id]})
	}
	return lines
}

func CartTotal(s domain.State) float64 {
	total := 0.0
	for _, line := range CartLines(s) {
		cost, err := strconv.ParseFloat(strings.TrimSpace(string(line.Item.Cost)), 64)
		if err != nil {
			continue
		}
		total += cost * float64(line.Count)
	}
	return total
}
