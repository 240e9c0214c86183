// internal/interfaces/http/handlers/checkout_test.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/config"
	"github.com/your-org/bookshop-storefront/internal/domain/cart"
	"github.com/your-org/bookshop-storefront/internal/domain/checkout"
	"github.com/your-org/bookshop-storefront/internal/domain/order"
	"github.com/your-org/bookshop-storefront/internal/infrastructure/storage"
)

func testContext() context.Context {
	return context.Background()
}

// stubGateway is a canned-response commerce gateway
type stubGateway struct {
	estimate *commerce.Estimate
	created  *commerce.CreatedOrder
}

func (s *stubGateway) EstimateOrder(ctx context.Context, token string, req commerce.OrderRequest) (*commerce.Estimate, error) {
	return s.estimate, nil
}

func (s *stubGateway) CreateOrder(ctx context.Context, token string, req commerce.OrderRequest) (*commerce.CreatedOrder, error) {
	return s.created, nil
}

type checkoutFixture struct {
	router *gin.Engine
	cart   *cart.Service
	order  *order.Service
}

func newCheckoutRouter() *checkoutFixture {
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	cartService := cart.NewService(store)
	orderService := order.NewService(store)
	gateway := &stubGateway{
		estimate: &commerce.Estimate{MoneyProduct: 200000, ShipFee: 25000, MoneyFinal: 225000},
		created:  &commerce.CreatedOrder{ID: 42, Code: "DH-00042", Status: "pending"},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	checkoutService := checkout.NewService(cartService, orderService, gateway, store, logger)
	handler := NewCheckoutHandler(checkoutService, orderService, &config.Config{})

	router := gin.New()
	router.GET("/checkout", handler.GetState)
	router.POST("/checkout/next", handler.Next)
	router.POST("/checkout/back", handler.Back)
	router.POST("/checkout/estimate", handler.Estimate)
	router.POST("/checkout/reset", handler.Reset)
	router.PUT("/checkout/draft", handler.UpdateDraft)
	router.PUT("/checkout/step", handler.SetStep)
	router.GET("/checkout/result", handler.Result)

	return &checkoutFixture{router: router, cart: cartService, order: orderService}
}

type stateResponse struct {
	Data checkout.State `json:"data"`
}

func (f *checkoutFixture) fillSession(t *testing.T, sessionID string) {
	t.Helper()
	_, err := f.cart.AddToCart(testContext(), sessionID, cart.CartItem{ID: 1, Name: "Book A", Price: 100000, Quantity: 2})
	require.NoError(t, err)

	w := doJSON(f.router, http.MethodPut, "/checkout/draft", sessionID,
		`{"receiverName": "Nguyen Van A", "receiverPhone": "0900000000", "receiverAddress": "12 Ly Thuong Kiet", "cityId": 1, "districtId": 5, "wardId": 12}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetCheckoutState(t *testing.T) {
	f := newCheckoutRouter()

	w := doJSON(f.router, http.MethodGet, "/checkout", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp stateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, checkout.StepCartConfirm, resp.Data.Step)
	assert.Equal(t, "cart-confirm", resp.Data.StepName)
}

func TestNextWithoutBody(t *testing.T) {
	f := newCheckoutRouter()

	w := doJSON(f.router, http.MethodPost, "/checkout/next", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp stateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, checkout.StepDelivery, resp.Data.Step)
}

func TestNextRejectsIncompleteDelivery(t *testing.T) {
	f := newCheckoutRouter()

	w := doJSON(f.router, http.MethodPost, "/checkout/next", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(f.router, http.MethodPost, "/checkout/next", "s1", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		MissingFields []string `json:"missingFields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.MissingFields, "receiverName")
	assert.Contains(t, resp.MissingFields, "wardId")
}

func TestFullWizardWalkthrough(t *testing.T) {
	f := newCheckoutRouter()
	f.fillSession(t, "s1")

	// Cart confirm → delivery
	w := doJSON(f.router, http.MethodPost, "/checkout/next", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	// Delivery → review, estimate attached
	w = doJSON(f.router, http.MethodPost, "/checkout/next", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp stateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, checkout.StepReview, resp.Data.Step)
	require.NotNil(t, resp.Data.Estimate)
	assert.Equal(t, 225000.0, resp.Data.Estimate.MoneyFinal)
	assert.Equal(t, 225000.0, resp.Data.Order.Total)

	// Review without accepted terms is rejected
	w = doJSON(f.router, http.MethodPost, "/checkout/next", "s1", `{"acceptTerms": false}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Review → confirmation
	w = doJSON(f.router, http.MethodPost, "/checkout/next", "s1", `{"acceptTerms": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, checkout.StepConfirmation, resp.Data.Step)
	require.NotNil(t, resp.Data.Result)
	assert.Equal(t, "DH-00042", resp.Data.Result.Code)

	// The result endpoint serves the stored confirmation
	w = doJSON(f.router, http.MethodGet, "/checkout/result", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPlaceWithoutEstimateConflicts(t *testing.T) {
	f := newCheckoutRouter()
	f.fillSession(t, "s1")

	// Jump to review directly in the draft store, skipping the estimate
	_, err := f.order.SetProgressStep(testContext(), "s1", int(checkout.StepReview))
	require.NoError(t, err)

	w := doJSON(f.router, http.MethodPost, "/checkout/next", "s1", `{"acceptTerms": true}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEstimateEmptyCartConflicts(t *testing.T) {
	f := newCheckoutRouter()

	w := doJSON(f.router, http.MethodPost, "/checkout/estimate", "s1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSetStepRejectsForwardJump(t *testing.T) {
	f := newCheckoutRouter()

	w := doJSON(f.router, http.MethodPut, "/checkout/step", "s1", `{"step": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetStepAllowsBackwardJump(t *testing.T) {
	f := newCheckoutRouter()
	f.fillSession(t, "s1")

	_, err := f.order.SetProgressStep(testContext(), "s1", int(checkout.StepReview))
	require.NoError(t, err)

	w := doJSON(f.router, http.MethodPut, "/checkout/step", "s1", `{"step": 0}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp stateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, checkout.StepCartConfirm, resp.Data.Step)
}

func TestResetEndpoint(t *testing.T) {
	f := newCheckoutRouter()
	f.fillSession(t, "s1")

	w := doJSON(f.router, http.MethodPost, "/checkout/reset", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)

	snapshot, err := f.order.Get(testContext(), "s1")
	require.NoError(t, err)
	assert.Equal(t, order.DefaultDraft(), snapshot.Order)
	assert.Equal(t, 0, snapshot.ProgressStep.Current)
}

func TestResultWithoutOrderIs404(t *testing.T) {
	f := newCheckoutRouter()

	w := doJSON(f.router, http.MethodGet, "/checkout/result", "s1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
