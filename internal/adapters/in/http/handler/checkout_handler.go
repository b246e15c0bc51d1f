// internal/adapters/in/http/handler/checkout_handler.go
package handler

import (
	"errors"
	"net/http"

	"tastebite/internal/adapters/in/http/middleware"
	usecase "tastebite/internal/application/usecase"
)

// CheckoutHandler serves POST /checkout. The route is mounted behind
// RequireAuth, so an unauthenticated request never reaches Submit.
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

type checkoutRequest struct {
	Fulfillment     string `json:"fulfillment"`
	DeliveryAddress string `json:"deliveryAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.uc.Submit(r.Context(), usecase.CheckoutInput{
		UserID:          middleware.CurrentUID(r.Context()),
		UserEmail:       middleware.CurrentEmail(r.Context()),
		Fulfillment:     req.Fulfillment,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotAuthenticated):
			writeErr(w, http.StatusUnauthorized, "sign in to check out")
		case errors.Is(err, usecase.ErrDeliveryAddressRequired):
			writeErr(w, http.StatusUnprocessableEntity, "delivery address is required")
		case errors.Is(err, usecase.ErrCartEmpty):
			writeErr(w, http.StatusUnprocessableEntity, "cart is empty")
		case errors.Is(err, usecase.ErrInvalidFulfillment):
			writeErr(w, http.StatusUnprocessableEntity, "fulfillment must be delivery or pickup")
		case errors.Is(err, usecase.ErrCheckoutInFlight):
			writeErr(w, http.StatusConflict, "a checkout is already in progress")
		default:
			// Submission failure: the cart is preserved, the client may retry.
			writeErr(w, http.StatusBadGateway, "order submission failed, please retry")
		}
		return
	}

	writeJSON(w, http.StatusCreated, res)
}
