// internal/adapters/in/http/handler/catalog_handler.go
package handler

import (
	"errors"
	"net/http"
	"strings"

	catalogdom "tastebite/internal/domain/catalog"
)

// CatalogHandler serves the read-only restaurant/menu listings.
// Intended mounts:
//   - GET /restaurants
//   - GET /restaurants/{id}
//   - GET /restaurants/{id}/menu
type CatalogHandler struct {
	repo catalogdom.Repository
}

func NewCatalogHandler(repo catalogdom.Repository) http.Handler {
	return &CatalogHandler{repo: repo}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeErr(w, http.StatusInternalServerError, "catalog handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case path == "/restaurants":
		h.handleList(w, r)
		return

	case strings.HasPrefix(path, "/restaurants/"):
		rest := strings.TrimPrefix(path, "/restaurants/")
		parts := strings.Split(rest, "/")
		switch {
		case len(parts) == 1 && parts[0] != "":
			h.handleGet(w, r, parts[0])
			return
		case len(parts) == 2 && parts[0] != "" && parts[1] == "menu":
			h.handleMenu(w, r, parts[0])
			return
		}
	}

	notFound(w)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.repo.ListRestaurants(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to load restaurants")
		return
	}
	if restaurants == nil {
		restaurants = []catalogdom.Restaurant{}
	}
	writeJSON(w, http.StatusOK, struct {
		Restaurants []catalogdom.Restaurant `json:"restaurants"`
	}{Restaurants: restaurants})
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	rest, err := h.repo.GetRestaurant(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdom.ErrNotFound) {
			notFound(w)
			return
		}
		writeErr(w, http.StatusInternalServerError, "failed to load restaurant")
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *CatalogHandler) handleMenu(w http.ResponseWriter, r *http.Request, id string) {
	items, err := h.repo.ListMenu(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdom.ErrNotFound) {
			notFound(w)
			return
		}
		writeErr(w, http.StatusInternalServerError, "failed to load menu")
		return
	}
	if items == nil {
		items = []catalogdom.MenuItem{}
	}
	writeJSON(w, http.StatusOK, struct {
		Items []catalogdom.MenuItem `json:"items"`
	}{Items: items})
}
