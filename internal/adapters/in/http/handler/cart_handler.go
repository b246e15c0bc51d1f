// internal/adapters/in/http/handler/cart_handler.go
package handler

import (
	"net/http"
	"strings"

	usecase "tastebite/internal/application/usecase"
	cartdom "tastebite/internal/domain/cart"
)

// CartHandler serves the cart endpoints.
// Intended mounts (router side):
//   - GET    /cart
//   - DELETE /cart
//   - POST   /cart/items
//   - PUT    /cart/items/{lineId}
//   - DELETE /cart/items/{lineId}
type CartHandler struct {
	store *usecase.CartStore
}

func NewCartHandler(store *usecase.CartStore) http.Handler {
	return &CartHandler{store: store}
}

// cartView is the response shape shared by every cart endpoint: the full
// state plus the derived queries the storefront renders (badge count, total).
type cartView struct {
	Lines          []cartdom.Line `json:"lines"`
	RestaurantID   string         `json:"restaurantId,omitempty"`
	RestaurantName string         `json:"restaurantName,omitempty"`
	Total          float64        `json:"total"`
	ItemCount      int            `json:"itemCount"`
	LineCount      int            `json:"lineCount"`
}

func (h *CartHandler) view() cartView {
	snap := h.store.Snapshot()
	return cartView{
		Lines:          snap.Lines,
		RestaurantID:   snap.RestaurantID,
		RestaurantName: snap.RestaurantName,
		Total:          snap.Total(),
		ItemCount:      snap.ItemCount(),
		LineCount:      snap.LineCount(),
	}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	switch {
	// ====== /cart
	case path == "/cart":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, h.view())
		case http.MethodDelete:
			h.store.Clear()
			writeJSON(w, http.StatusOK, h.view())
		default:
			methodNotAllowed(w)
		}
		return

	// ====== POST /cart/items
	case path == "/cart/items":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.handleAdd(w, r)
		return

	// ====== /cart/items/{lineId}
	case strings.HasPrefix(path, "/cart/items/"):
		lineID := strings.TrimPrefix(path, "/cart/items/")
		if lineID == "" || strings.Contains(lineID, "/") {
			notFound(w)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.handleSetQuantity(w, r, lineID)
		case http.MethodDelete:
			h.store.Remove(lineID)
			writeJSON(w, http.StatusOK, h.view())
		default:
			methodNotAllowed(w)
		}
		return
	}

	notFound(w)
}

type addLineRequest struct {
	MenuItemID          string  `json:"menuItemId"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	Image               *string `json:"image"`
	SpecialInstructions *string `json:"specialInstructions"`
	RestaurantID        string  `json:"restaurantId"`
	RestaurantName      string  `json:"restaurantName"`
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	// Defense-in-depth at the boundary; the domain itself trusts its caller.
	if strings.TrimSpace(req.MenuItemID) == "" || strings.TrimSpace(req.RestaurantID) == "" {
		writeErr(w, http.StatusBadRequest, "menuItemId and restaurantId are required")
		return
	}
	if req.Quantity < 1 {
		writeErr(w, http.StatusBadRequest, "quantity must be >= 1")
		return
	}
	if req.Price < 0 {
		writeErr(w, http.StatusBadRequest, "price must be >= 0")
		return
	}

	lineID, err := h.store.Add(cartdom.Candidate{
		MenuItemID:          req.MenuItemID,
		Name:                req.Name,
		Price:               req.Price,
		Quantity:            req.Quantity,
		Image:               req.Image,
		SpecialInstructions: req.SpecialInstructions,
	}, req.RestaurantID, req.RestaurantName)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		LineID string   `json:"lineId"`
		Cart   cartView `json:"cart"`
	}{LineID: lineID, Cart: h.view()})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request, lineID string) {
	var req setQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	// quantity <= 0 removes the line, same as DELETE.
	h.store.SetQuantity(lineID, req.Quantity)
	writeJSON(w, http.StatusOK, h.view())
}
