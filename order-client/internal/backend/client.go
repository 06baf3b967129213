package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tableorder/order-client/internal/domain"
	"tableorder/order-client/internal/service"
)

var ErrMalformedResponse = errors.New("malformed backend response")

var restaurantInfoKeys = []string{
	"max", "intervaltime", "shopname", "shoplogo", "phone", "address", "email", "currencydefault",
}

var _ service.Backend = (*Client)(nil)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the restaurant ordering API. Responses are loosely typed
// JSON and are shape-checked before use.
type Client struct {
	baseURL string
	client  HTTPClient
}

func NewClient(baseURL string, client HTTPClient) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) request(ctx context.Context, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + "/index.php?" + query.Encode()
	log.Printf("[backend] GET %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", query.Get("action"), err)
	}
	defer resp.Body.Close()

	log.Printf("[backend] received response: %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", query.Get("action"), err)
	}
	return body, nil
}

func (c *Client) GetRestaurantInfo(ctx context.Context, shopID string) (*domain.RestaurantInfo, error) {
	body, err := c.request(ctx, url.Values{
		"ctrl":   {"shop"},
		"action": {"jmGetShopInfo"},
		"id":     {shopID},
	})
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if !isJSON(body, '{') || json.Unmarshal(body, &fields) != nil {
		log.Printf("[backend] WARNING: restaurant info is not an object")
		return nil, fmt.Errorf("restaurant info: not an object: %w", ErrMalformedResponse)
	}
	for _, key := range restaurantInfoKeys {
		if _, ok := fields[key]; !ok {
			log.Printf("[backend] WARNING: restaurant info is missing %q", key)
			return nil, fmt.Errorf("restaurant info: missing %q: %w", key, ErrMalformedResponse)
		}
	}

	var info domain.RestaurantInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("restaurant info: %v: %w", err, ErrMalformedResponse)
	}
	if info.ShopID == "" {
		info.ShopID = domain.NumericString(shopID)
	}
	return &info, nil
}

func (c *Client) GetMenu(ctx context.Context, shopID string) ([]domain.MenuCategory, error) {
	body, err := c.request(ctx, url.Values{
		"ctrl":   {"shop"},
		"action": {"jmGetGoodsType"},
		"id":     {shopID},
	})
	if err != nil {
		return nil, err
	}

	menu := []domain.MenuCategory{}
	if err := decodeArray(body, &menu); err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}
	return menu, nil
}

func (c *Client) GetTableOrderHistory(ctx context.Context, shopID, tableNumber string) (domain.OrderHistory, error) {
	body, err := c.request(ctx, url.Values{
		"ctrl":      {"order"},
		"action":    {"jmOrderHistory"},
		"shopid":    {shopID},
		"table_num": {tableNumber},
	})
	if err != nil {
		return nil, err
	}

	history := domain.OrderHistory{}
	if err := decodeArray(body, &history); err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return history, nil
}

func (c *Client) SendOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	body, err := c.request(ctx, url.Values{
		"ctrl":         {"order"},
		"action":       {"makeorder"},
		"shopid":       {order.ShopID},
		"contactname":  {"1"},
		"address":      {"1"},
		"minit":        {"81000"},
		"ids":          {strings.Join(order.IDs, ",")},
		"nums":         {strings.Join(order.Nums, ",")},
		"table_num":    {order.TableNum},
		"person_count": {strconv.Itoa(order.PersonCount)},
		"adult":        {strconv.Itoa(order.Adult)},
		"child":        {strconv.Itoa(order.Child)},
		"pscost":       {"0.00"},
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[backend] order response: %s", body)

	if !isJSON(body, '{') {
		log.Printf("[backend] WARNING: order response is not an object")
		return nil, fmt.Errorf("order: not an object: %w", ErrMalformedResponse)
	}
	var resp domain.OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("order: %v: %w", err, ErrMalformedResponse)
	}
	return &resp, nil
}

func decodeArray(body []byte, target interface{}) error {
	if !isJSON(body, '[') {
		log.Printf("[backend] WARNING: response is not an array")
		return fmt.Errorf("not an array: %w", ErrMalformedResponse)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%v: %w", err, ErrMalformedResponse)
	}
	return nil
}

func isJSON(body []byte, open byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == open && json.Valid(trimmed)
}
