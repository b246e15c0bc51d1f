// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"tastebite/internal/adapters/in/http/handler"
	"tastebite/internal/adapters/in/http/middleware"
	usecase "tastebite/internal/application/usecase"
	catalogdom "tastebite/internal/domain/catalog"
)

// RouterDeps collects everything injected from the DI container. Handlers are
// only mounted when their dependency is present, so a partially configured
// environment still serves what it can.
type RouterDeps struct {
	CartStore  *usecase.CartStore
	CheckoutUC *usecase.CheckoutUsecase
	OrderUC    *usecase.OrderQueryUsecase

	Catalog catalogdom.Repository

	FirebaseAuth *middleware.FirebaseAuthClient
}

// NewRouter sets up HTTP routing for the storefront endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	auth := &middleware.AuthMiddleware{FirebaseAuth: deps.FirebaseAuth}

	// Cart (anonymous: the cart belongs to the browsing session)
	if deps.CartStore != nil {
		cart := handler.NewCartHandler(deps.CartStore)
		mux.Handle("/cart", cart)
		mux.Handle("/cart/", cart)
	}

	// Checkout (identity required before any submission is attempted)
	if deps.CheckoutUC != nil {
		mux.Handle("/checkout", auth.RequireAuth(handler.NewCheckoutHandler(deps.CheckoutUC)))
	}

	// Order history
	if deps.OrderUC != nil {
		mux.Handle("/orders", auth.RequireAuth(handler.NewOrderHandler(deps.OrderUC)))
	}

	// Catalog (read-only)
	if deps.Catalog != nil {
		catalog := handler.NewCatalogHandler(deps.Catalog)
		mux.Handle("/restaurants", catalog)
		mux.Handle("/restaurants/", catalog)
	}

	return mux
}
