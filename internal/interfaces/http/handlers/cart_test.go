// internal/interfaces/http/handlers/cart_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookshop-storefront/internal/config"
	"github.com/your-org/bookshop-storefront/internal/domain/cart"
	"github.com/your-org/bookshop-storefront/internal/infrastructure/storage"
)

func newCartRouter() (*gin.Engine, *cart.Service) {
	gin.SetMode(gin.TestMode)

	cartService := cart.NewService(storage.NewMemoryStore())
	handler := NewCartHandler(cartService, &config.Config{})

	router := gin.New()
	router.GET("/cart", handler.GetCart)
	router.POST("/cart/items", handler.AddToCart)
	router.PUT("/cart/items/:id", handler.UpdateCartItem)
	router.DELETE("/cart/items/:id", handler.RemoveFromCart)
	router.DELETE("/cart", handler.ClearCart)
	return router, cartService
}

func doJSON(router *gin.Engine, method, path, sessionID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetCartMintsSessionCookie(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(router, http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAddToCartEndpoint(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(router, http.MethodPost, "/cart/items", "s1",
		`{"id": 1, "name": "Book A", "price": 100000, "quantity": 2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Totals cart.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Totals.ItemCount)
	assert.Equal(t, 2, resp.Totals.TotalQuantity)
	assert.Equal(t, 200000.0, resp.Totals.TotalPrice)
}

func TestAddToCartRejectsMissingFields(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(router, http.MethodPost, "/cart/items", "s1", `{"price": 100000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCartItemEndpoint(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(router, http.MethodPost, "/cart/items", "s1",
		`{"id": 1, "name": "Book A", "price": 100000, "quantity": 2}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, "/cart/items/1", "s1", `{"quantity": 5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Totals cart.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Totals.TotalQuantity)
}

func TestUpdateCartItemInvalidID(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(router, http.MethodPut, "/cart/items/abc", "s1", `{"quantity": 5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveAndClearCartEndpoints(t *testing.T) {
	router, cartService := newCartRouter()

	w := doJSON(router, http.MethodPost, "/cart/items", "s1",
		`{"id": 1, "name": "Book A", "price": 100000}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/cart/items", "s1",
		`{"id": 2, "name": "Book B", "price": 50000}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/cart/items/1", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/cart", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	snapshot, err := cartService.GetCart(testContext(), "s1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.CartItems)
}

func TestSessionHeaderIsolatesCarts(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(router, http.MethodPost, "/cart/items", "s1",
		`{"id": 1, "name": "Book A", "price": 100000}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/cart", "s2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Totals cart.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Totals.ItemCount)
}
