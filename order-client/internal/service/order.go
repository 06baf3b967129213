package service

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"tableorder/order-client/internal/domain"
)

// PrepareOrderRequest flattens the cart into the backend's parallel id/count
// sequences. nums[i] is the quantity of ids[i].
func PrepareOrderRequest(cart domain.ShoppingCart, personCount domain.PersonCount, restaurantID, tableNumber string) domain.OrderRequest {
	req := domain.OrderRequest{
		ShopID:      restaurantID,
		IDs:         []string{},
		Nums:        []string{},
		TableNum:    tableNumber,
		PersonCount: personCount.Total(),
		Adult:       personCount.Adults,
		Child:       personCount.Children,
	}

	for _, id := range SortedItemIDs(cart) {
		req.IDs = append(req.IDs, id)
		req.Nums = append(req.Nums, strconv.Itoa(cart[id]))
	}

	return req
}

// SortedItemIDs orders cart keys: numeric ids ascending by value, then any
// other ids lexicographically.
func SortedItemIDs(cart domain.ShoppingCart) []string {
	ids := make([]string, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.ParseUint(ids[i], 10, 64)
		b, bErr := strconv.ParseUint(ids[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			if a != b {
				return a < b
			}
			return ids[i] < ids[j]
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return ids[i] < ids[j]
	})
	return ids
}

func menuItemIDs(menu []domain.MenuCategory) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, category := range menu {
		for _, item := range category.Items {
			ids[item.ID] = struct{}{}
		}
	}
	return ids
}

// MenuItemSetsDiffer reports whether the two menus carry different item id
// sets. Order, names and prices are ignored.
func MenuItemSetsDiffer(previous, current []domain.MenuCategory) bool {
	prevIDs := menuItemIDs(previous)
	curIDs := menuItemIDs(current)

	if len(prevIDs) != len(curIDs) {
		return true
	}
	for id := range prevIDs {
		if _, ok := curIDs[id]; !ok {
			return true
		}
	}
	return false
}

// ParseTableQRCode extracts the table number from a scanned table code such
// as http://host/?tablenum=B20.
func ParseTableQRCode(data string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(data))
	if err != nil || u.Scheme == "" {
		return "", false
	}
	table := u.Query().Get("tablenum")
	if table == "" {
		return "", false
	}
	return table, true
}

// ResolveImageURL turns backend-relative image paths into absolute URLs.
func ResolveImageURL(baseURL, img string) string {
	if strings.HasPrefix(img, "/") {
		return strings.TrimRight(baseURL, "/") + img
	}
	return img
}
