package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	usecase "tastebite/internal/application/usecase"
	cartdom "tastebite/internal/domain/cart"
)

// memCartRepo is a minimal in-memory cart.Repository for handler tests.
type memCartRepo struct {
	record *cartdom.Cart
}

func (m *memCartRepo) Load(ctx context.Context) (*cartdom.Cart, error) {
	if m.record == nil {
		return nil, nil
	}
	return m.record.Clone(), nil
}

func (m *memCartRepo) Save(ctx context.Context, c *cartdom.Cart) error {
	m.record = c.Clone()
	return nil
}

func (m *memCartRepo) Delete(ctx context.Context) error {
	m.record = nil
	return nil
}

func newTestStore(t *testing.T) *usecase.CartStore {
	t.Helper()
	s, err := usecase.NewCartStore(context.Background(), &memCartRepo{})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

type cartViewResp struct {
	Lines []struct {
		ID         string `json:"id"`
		MenuItemID string `json:"menuItemId"`
		Quantity   int    `json:"quantity"`
	} `json:"lines"`
	RestaurantID string  `json:"restaurantId"`
	Total        float64 `json:"total"`
	ItemCount    int     `json:"itemCount"`
	LineCount    int     `json:"lineCount"`
}

func TestCartHandlerAddGetUpdateClear(t *testing.T) {
	h := NewCartHandler(newTestStore(t))

	// POST /cart/items
	w := doJSON(t, h, http.MethodPost, "/cart/items",
		`{"menuItemId":"m1","name":"Pad Thai","price":11.5,"quantity":2,"restaurantId":"r1","restaurantName":"Thai Palace"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var added struct {
		LineID string       `json:"lineId"`
		Cart   cartViewResp `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	require.NotEmpty(t, added.LineID)
	require.Equal(t, 2, added.Cart.ItemCount)
	require.InDelta(t, 23.0, added.Cart.Total, 1e-9)

	// GET /cart
	w = doJSON(t, h, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view cartViewResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, 1, view.LineCount)
	require.Equal(t, "r1", view.RestaurantID)

	// PUT /cart/items/{id} with quantity 0 removes the line.
	w = doJSON(t, h, http.MethodPut, "/cart/items/"+added.LineID, `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	view = cartViewResp{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, 0, view.LineCount)
	require.Equal(t, "", view.RestaurantID)
}

func TestCartHandlerClearAndRemove(t *testing.T) {
	h := NewCartHandler(newTestStore(t))

	w := doJSON(t, h, http.MethodPost, "/cart/items",
		`{"menuItemId":"m1","name":"Burger","price":8.99,"quantity":1,"restaurantId":"r1","restaurantName":"Burger Joint"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var added struct {
		LineID string `json:"lineId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))

	// DELETE /cart/items/{id} for an absent id is still a 200 no-op.
	w = doJSON(t, h, http.MethodDelete, "/cart/items/nope", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/cart/items/"+added.LineID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view cartViewResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, 0, view.LineCount)

	// DELETE /cart clears whatever is left.
	w = doJSON(t, h, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCartHandlerRejectsBadPayloads(t *testing.T) {
	h := NewCartHandler(newTestStore(t))

	cases := map[string]string{
		"not json":           `{`,
		"unknown field":      `{"menuItemId":"m1","restaurantId":"r1","quantity":1,"bogus":true}`,
		"missing menu item":  `{"restaurantId":"r1","quantity":1}`,
		"missing restaurant": `{"menuItemId":"m1","quantity":1}`,
		"zero quantity":      `{"menuItemId":"m1","restaurantId":"r1","quantity":0}`,
		"negative price":     `{"menuItemId":"m1","restaurantId":"r1","quantity":1,"price":-1}`,
	}
	for name, body := range cases {
		w := doJSON(t, h, http.MethodPost, "/cart/items", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "case %q", name)
	}

	// Verb and path checks.
	require.Equal(t, http.StatusMethodNotAllowed, doJSON(t, h, http.MethodPatch, "/cart", "").Code)
	require.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodGet, "/cart/items/a/b", "").Code)
}
