package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"tableorder/order-client/internal/backend"
	"tableorder/order-client/internal/domain"
	"tableorder/order-client/internal/service"

	"github.com/gorilla/mux"
)

type NotificationSource interface {
	Drain() []domain.Notification
}

type Handler struct {
	Store         service.SessionStore
	Fetcher       service.FetcherInterface
	Orders        service.OrderServiceInterface
	Sessions      service.SessionServiceInterface
	Settings      *service.SettingsStore
	Notifications NotificationSource
	TableCodes    service.TableQRGenerator
	ImageBaseURL  string
}

func NewHandler(
	store service.SessionStore,
	fetcher service.FetcherInterface,
	orders service.OrderServiceInterface,
	sessions service.SessionServiceInterface,
	settings *service.SettingsStore,
	notifications NotificationSource,
	tableCodes service.TableQRGenerator,
	imageBaseURL string,
) *Handler {
	return &Handler{
		Store:         store,
		Fetcher:       fetcher,
		Orders:        orders,
		Sessions:      sessions,
		Settings:      settings,
		Notifications: notifications,
		TableCodes:    tableCodes,
		ImageBaseURL:  imageBaseURL,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/state", h.getState).Methods("GET")
	r.HandleFunc("/api/reset", h.resetAll).Methods("POST")

	r.HandleFunc("/api/store", h.selectStore).Methods("POST")
	r.HandleFunc("/api/store/refresh", h.refreshStore).Methods("POST")

	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/menu/items/{id}", h.getMenuItem).Methods("GET")

	r.HandleFunc("/api/session", h.startSession).Methods("POST")
	r.HandleFunc("/api/session/scan", h.scanTableCode).Methods("POST")
	r.HandleFunc("/api/session", h.forgetSession).Methods("DELETE")
	r.HandleFunc("/api/session/end", h.endSession).Methods("POST")
	r.HandleFunc("/api/sessions/past", h.getPastSessions).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items/{id}", h.addToCart).Methods("POST")
	r.HandleFunc("/api/cart/items/{id}", h.removeFromCart).Methods("DELETE")
	r.HandleFunc("/api/cart/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/api/orders/progress", h.getOrderProgress).Methods("GET")
	r.HandleFunc("/api/orders/items/{uuid}", h.setItemReceived).Methods("PUT")
	r.HandleFunc("/api/orders/history", h.fetchOrderHistory).Methods("POST")

	r.HandleFunc("/api/favorites/{id}", h.setFavorite).Methods("PUT")
	r.HandleFunc("/api/favorites", h.clearFavorites).Methods("DELETE")

	r.HandleFunc("/api/person-count", h.setPersonCount).Methods("PUT")

	r.HandleFunc("/api/tables/{table}/qrcode", h.getTableQRCode).Methods("GET")

	r.HandleFunc("/api/settings", h.getSettings).Methods("GET")
	r.HandleFunc("/api/settings", h.updateSettings).Methods("PUT")

	r.HandleFunc("/api/notifications", h.getNotifications).Methods("GET")
}

type menuItemView struct {
	domain.MenuItem
	ImageURL string `json:"image_url"`
	New      bool   `json:"new"`
	Free     bool   `json:"free"`
	Favorite bool   `json:"favorite"`
	InCart   bool   `json:"in_cart"`
}

type menuCategoryView struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Items []menuItemView `json:"det"`
}

func (h *Handler) itemView(state domain.State, item domain.MenuItem) menuItemView {
	return menuItemView{
		MenuItem: item,
		ImageURL: service.ResolveImageURL(h.ImageBaseURL, item.Img),
		New:      service.IsItemNew(state, item.ID),
		Free:     service.IsItemFree(item),
		Favorite: service.IsItemFavorite(state, item.ID),
		InCart:   service.IsItemInCart(state, item.ID),
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-client",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.State())
}

func (h *Handler) resetAll(w http.ResponseWriter, r *http.Request) {
	writeApplied(w, h.Store.ResetAll())
}

func (h *Handler) selectStore(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ShopID string `json:"shop_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.ShopID) == "" {
		http.Error(w, "Missing shop_id", http.StatusBadRequest)
		return
	}

	h.Store.SelectStore(payload.ShopID)
	h.refreshStore(w, r)
}

func (h *Handler) refreshStore(w http.ResponseWriter, r *http.Request) {
	if err := h.Fetcher.Refresh(r.Context()); err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, h.Store.State().SelectedStore)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	state := h.Store.State()
	menu := service.FilterMenu(state.Menu, r.URL.Query().Get("q"))

	categories := make([]menuCategoryView, 0, len(menu))
	for _, category := range menu {
		view := menuCategoryView{ID: category.ID, Name: category.Name, Items: make([]menuItemView, 0, len(category.Items))}
		for _, item := range category.Items {
			view.Items = append(view.Items, h.itemView(state, item))
		}
		categories = append(categories, view)
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	state := h.Store.State()
	item := service.FindMenuItemByID(state.Menu, mux.Vars(r)["id"])
	if item == nil {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.itemView(state, *item))
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TableNumber string `json:"table_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Sessions.StartSession(payload.TableNumber); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, h.Store.State().CurrentSession)
}

func (h *Handler) scanTableCode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.Sessions.StartSessionFromQRCode(payload.Data); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, h.Store.State().CurrentSession)
}

func (h *Handler) forgetSession(w http.ResponseWriter, r *http.Request) {
	writeApplied(w, h.Store.ClearSessionWithoutSave())
}

func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	past, err := h.Sessions.EndSession(r.Context())
	if err != nil && past == nil {
		writeError(w, err, http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("[api] WARNING: session ended but not archived: %v", err)
	}
	writeJSON(w, http.StatusOK, past)
}

func (h *Handler) getPastSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Sessions.PastSessions(r.Context(), r.URL.Query().Get("restaurant_id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	state := h.Store.State()
	if state.CurrentSession == nil {
		http.Error(w, service.ErrNoActiveSession.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": service.CartLines(state),
		"count": service.CartItemCount(state),
		"total": service.CartTotal(state),
		"cart":  state.CurrentSession.ShoppingCart,
	})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	writeApplied(w, h.Store.ClearCart())
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	writeApplied(w, h.Store.AddItemToCart(mux.Vars(r)["id"]))
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if r.URL.Query().Get("all") == "true" {
		writeApplied(w, h.Store.DeleteItemFromCart(id))
		return
	}
	writeApplied(w, h.Store.RemoveItemFromCart(id))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Orders.Checkout(r.Context())
	if err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) getOrderProgress(w http.ResponseWriter, r *http.Request) {
	progress := service.OrderProgress(h.Store.State())
	if progress == nil {
		http.Error(w, service.ErrNoActiveSession.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) setItemReceived(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Received bool `json:"received"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeApplied(w, h.Store.SetItemReceived(mux.Vars(r)["uuid"], payload.Received))
}

func (h *Handler) fetchOrderHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Fetcher.FetchOrderHistory(r.Context())
	if err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) setFavorite(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeApplied(w, h.Store.SetItemInFavorites(mux.Vars(r)["id"], payload.Favorite))
}

func (h *Handler) clearFavorites(w http.ResponseWriter, r *http.Request) {
	writeApplied(w, h.Store.ClearFavorites())
}

func (h *Handler) setPersonCount(w http.ResponseWriter, r *http.Request) {
	var count domain.PersonCount
	if err := json.NewDecoder(r.Body).Decode(&count); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.Store.SetPersonCount(count) {
		http.Error(w, "Person counts must not be negative", http.StatusBadRequest)
		return
	}
	writeApplied(w, true)
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	png, err := h.TableCodes.Generate(table)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings.Settings())
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ColorScheme *domain.ColorScheme `json:"color_scheme"`
		Language    *string             `json:"language"`
		Reset       bool                `json:"reset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if payload.Reset {
		h.Settings.Reset()
	}
	if payload.ColorScheme != nil && !h.Settings.SetColorScheme(*payload.ColorScheme) {
		http.Error(w, "Invalid color_scheme", http.StatusBadRequest)
		return
	}
	if payload.Language != nil {
		h.Settings.SetLanguage(*payload.Language)
	}
	writeJSON(w, http.StatusOK, h.Settings.Settings())
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Notifications.Drain())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeApplied reports the outcome of a store transition. A transition whose
// precondition was missing answers 409.
func writeApplied(w http.ResponseWriter, applied bool) {
	status := http.StatusOK
	if !applied {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]bool{"applied": applied})
}

func writeError(w http.ResponseWriter, err error, fallback int) {
	switch {
	case errors.Is(err, service.ErrInvalidTableNumber), errors.Is(err, service.ErrInvalidTableCode):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrCheckoutInProgress),
		errors.Is(err, service.ErrStaleResponse),
		errors.Is(err, service.ErrSessionNotEnded):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, backend.ErrMalformedResponse):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), fallback)
	}
}
