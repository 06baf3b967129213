package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// NumericString holds a backend number. The restaurant API sends most numbers
// as strings but is not consistent about it, so plain JSON numbers are
// accepted too.
type NumericString string

func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumericString(num.String())
	return nil
}

type RestaurantInfo struct {
	ShopID          NumericString `json:"shopid"`
	Max             NumericString `json:"max"`
	IntervalTime    NumericString `json:"intervaltime"`
	ShopName        string        `json:"shopname"`
	ShopLogo        string        `json:"shoplogo"`
	Phone           string        `json:"phone"`
	Address         string        `json:"address"`
	Email           string        `json:"email"`
	CurrencyDefault string        `json:"currencydefault"`
}

type MenuItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	TypeID    string          `json:"typeid"`
	Name      string          `json:"name"`
	Img       string          `json:"img"`
	Cost      NumericString   `json:"cost"`
	Count     NumericString   `json:"count"`
	SellCount json.RawMessage `json:"sellcount,omitempty"`
	Printer   json.RawMessage `json:"printer,omitempty"`
}

type MenuCategory struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"det"`
}

// SavedMenuItem is the display subset of a MenuItem kept after the live menu
// has moved on.
type SavedMenuItem struct {
	ID        string        `json:"id"`
	ProductID string        `json:"product_id"`
	Img       string        `json:"img"`
	Name      string        `json:"name"`
	Cost      NumericString `json:"cost"`
}

func (m MenuItem) Saved() SavedMenuItem {
	return SavedMenuItem{
		ID:        m.ID,
		ProductID: m.ProductID,
		Img:       m.Img,
		Name:      m.Name,
		Cost:      m.Cost,
	}
}

type PreviousMenuItems struct {
	Items       []SavedMenuItem `json:"items"`
	LastUpdated time.Time       `json:"last_updated"`
}

type OrderHistoryItemDetails struct {
	ID        string        `json:"id"`
	OrderID   string        `json:"order_id"`
	GoodsID   string        `json:"goodsid"`
	Img       string        `json:"img"`
	GoodsName string        `json:"goodsname"`
	GoodsCnt  NumericString `json:"goodscount"`
	GoodsCost NumericString `json:"goodscost"`
	ProductID string        `json:"product_id"`
}

type OrderHistoryItem struct {
	ID      string                    `json:"id"`
	Dno     string                    `json:"dno"`
	Time    string                    `json:"time"`
	Details []OrderHistoryItemDetails `json:"det"`
}

type OrderHistory []OrderHistoryItem

// ShoppingCart maps menu item id to a positive quantity.
type ShoppingCart map[string]int

type OrderedItem struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	Received bool   `json:"received"`
}

type RestaurantSession struct {
	RestaurantID string                 `json:"restaurant_id"`
	TableNumber  string                 `json:"table_number"`
	SessionStart time.Time              `json:"session_start"`
	ShoppingCart ShoppingCart           `json:"shopping_cart"`
	OrderedItems map[string]OrderedItem `json:"ordered_items"`
	OrderHistory OrderHistory           `json:"order_history"`
}

type PastRestaurantSession struct {
	RestaurantID string                   `json:"restaurant_id"`
	TableNumber  string                   `json:"table_number"`
	SessionStart time.Time                `json:"session_start"`
	SessionEnd   time.Time                `json:"session_end"`
	OrderedItems map[string]OrderedItem   `json:"ordered_items"`
	ItemDetails  map[string]SavedMenuItem `json:"item_details"`
}

// Favorites maps restaurant id to favourite menu item ids.
type Favorites map[string][]string

type PersonCount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

func (p PersonCount) Total() int {
	return p.Adults + p.Children
}

type SelectedStore struct {
	ID   string          `json:"id"`
	Info *RestaurantInfo `json:"info"`
}

// State is the persisted session document.
type State struct {
	CurrentSession    *RestaurantSession      `json:"current_session"`
	SelectedStore     SelectedStore           `json:"selected_store"`
	PersonCount       PersonCount             `json:"person_count"`
	Favorites         Favorites               `json:"favorites"`
	Menu              []MenuCategory          `json:"menu"`
	PreviousMenuItems *PreviousMenuItems      `json:"previous_menu_items"`
	PastSessions      []PastRestaurantSession `json:"past_sessions"`
}

type OrderRequest struct {
	ShopID      string   `json:"shopid"`
	IDs         []string `json:"ids"`
	Nums        []string `json:"nums"`
	TableNum    string   `json:"table_num"`
	PersonCount int      `json:"person_count"`
	Adult       int      `json:"adult"`
	Child       int      `json:"child"`
}

type OrderResponse struct {
	Code      NumericString `json:"code"`
	Msg       string        `json:"msg"`
	Over      NumericString `json:"over"`
	Type      string        `json:"type"`
	StartTime string        `json:"starttime"`
}

type OrderEvent struct {
	Type         string    `json:"type"`
	RestaurantID string    `json:"restaurant_id"`
	TableNumber  string    `json:"table_number"`
	IDs          []string  `json:"ids"`
	Nums         []string  `json:"nums"`
	PersonCount  int       `json:"person_count"`
	Timestamp    time.Time `json:"timestamp"`
}

type OrderProgress struct {
	Progress float64 `json:"progress"`
	Received int     `json:"received"`
	Size     int     `json:"size"`
}

type CartLine struct {
	Item  MenuItem `json:"item"`
	Count int      `json:"count"`
}

type ColorScheme string

const (
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
	ColorSchemeSystem ColorScheme = "system"
)

func (c ColorScheme) Valid() bool {
	switch c {
	case ColorSchemeLight, ColorSchemeDark, ColorSchemeSystem:
		return true
	}
	return false
}

type Settings struct {
	ColorScheme ColorScheme `json:"color_scheme"`
	Language    *string     `json:"language"`
}
