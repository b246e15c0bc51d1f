// internal/adapters/in/http/handler/order_handler.go
package handler

import (
	"net/http"

	"tastebite/internal/adapters/in/http/middleware"
	usecase "tastebite/internal/application/usecase"
	orderdom "tastebite/internal/domain/order"
)

// OrderHandler serves GET /orders (the signed-in user's order history).
type OrderHandler struct {
	uc *usecase.OrderQueryUsecase
}

func NewOrderHandler(uc *usecase.OrderQueryUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	uid := middleware.CurrentUID(r.Context())
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "sign in to view orders")
		return
	}

	orders, err := h.uc.ListByUser(r.Context(), uid)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []orderdom.Order{}
	}

	writeJSON(w, http.StatusOK, struct {
		Orders []orderdom.Order `json:"orders"`
	}{Orders: orders})
}
