// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/domain/cart"
	"github.com/your-org/bookshop-storefront/internal/domain/order"
	"github.com/your-org/bookshop-storefront/internal/infrastructure/storage"
)

// mockGateway stands in for the commerce platform
type mockGateway struct {
	mu sync.Mutex

	estimate    *commerce.Estimate
	estimateErr error
	created     *commerce.CreatedOrder
	createErr   error

	estimateCalls int
	createCalls   int
	lastRequest   commerce.OrderRequest

	// When set, CreateOrder blocks until the channel is closed
	createGate chan struct{}
}

func (m *mockGateway) EstimateOrder(ctx context.Context, token string, req commerce.OrderRequest) (*commerce.Estimate, error) {
	m.mu.Lock()
	m.estimateCalls++
	m.lastRequest = req
	m.mu.Unlock()
	if m.estimateErr != nil {
		return nil, m.estimateErr
	}
	return m.estimate, nil
}

func (m *mockGateway) CreateOrder(ctx context.Context, token string, req commerce.OrderRequest) (*commerce.CreatedOrder, error) {
	m.mu.Lock()
	m.createCalls++
	m.lastRequest = req
	gate := m.createGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

type fixture struct {
	cart     *cart.Service
	order    *order.Service
	gateway  *mockGateway
	checkout *Service
}

func newFixture() *fixture {
	store := storage.NewMemoryStore()
	cartSvc := cart.NewService(store)
	orderSvc := order.NewService(store)
	gateway := &mockGateway{
		estimate: &commerce.Estimate{
			MoneyProduct: 300000,
			ShipFee:      25000,
			MoneyVat:     30000,
			MoneyFinal:   355000,
			TotalPoints:  30,
		},
		created: &commerce.CreatedOrder{
			ID:         42,
			Code:       "DH-00042",
			MoneyFinal: 355000,
			Status:     "pending",
		},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &fixture{
		cart:     cartSvc,
		order:    orderSvc,
		gateway:  gateway,
		checkout: NewService(cartSvc, orderSvc, gateway, store, logger),
	}
}

func (f *fixture) fillCart(t *testing.T, sessionID string) {
	t.Helper()
	_, err := f.cart.AddToCart(context.Background(), sessionID, cart.CartItem{ID: 1, Name: "Book A", Price: 100000, Quantity: 3})
	require.NoError(t, err)
}

func (f *fixture) fillDelivery(t *testing.T, sessionID string) {
	t.Helper()
	city, district, ward := 1, 5, 12
	_, err := f.order.SetOrder(context.Background(), sessionID, order.DraftPatch{
		ReceiverName:    strPtr("Nguyen Van A"),
		ReceiverPhone:   strPtr("0900000000"),
		ReceiverAddress: strPtr("12 Ly Thuong Kiet"),
		CityID:          &city,
		DistrictID:      &district,
		WardID:          &ward,
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

// advanceToReview walks a session from the first step onto Review with a
// valid cart and delivery draft
func (f *fixture) advanceToReview(t *testing.T, sessionID string) {
	t.Helper()
	ctx := context.Background()
	f.fillCart(t, sessionID)
	f.fillDelivery(t, sessionID)

	state, err := f.checkout.Next(ctx, sessionID, "tok", false)
	require.NoError(t, err)
	require.Equal(t, StepDelivery, state.Step)

	state, err = f.checkout.Next(ctx, sessionID, "tok", false)
	require.NoError(t, err)
	require.Equal(t, StepReview, state.Step)
}

func TestInitialState(t *testing.T) {
	f := newFixture()

	state, err := f.checkout.CurrentState(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, StepCartConfirm, state.Step)
	assert.Equal(t, "cart-confirm", state.StepName)
	assert.Nil(t, state.Estimate)
	assert.Nil(t, state.Result)
}

func TestNextFromCartConfirmIsUnconditional(t *testing.T) {
	f := newFixture()

	state, err := f.checkout.Next(context.Background(), "session-1", "tok", false)
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, state.Step)
	assert.Equal(t, "delivery", state.StepName)
}

func TestNextFromDeliveryRejectsIncompleteFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.fillCart(t, "session-1")

	_, err := f.checkout.Next(ctx, "session-1", "tok", false)
	require.NoError(t, err)

	// Only part of the delivery info is filled in
	_, err = f.order.SetOrder(ctx, "session-1", order.DraftPatch{
		ReceiverName:  strPtr("Nguyen Van A"),
		ReceiverPhone: strPtr("0900000000"),
	})
	require.NoError(t, err)

	_, err = f.checkout.Next(ctx, "session-1", "tok", false)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []string{"receiverAddress", "cityId", "districtId", "wardId"}, vErr.MissingFields)

	// The rejection leaves step and draft unchanged
	state, err := f.checkout.CurrentState(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, state.Step)
	assert.Equal(t, "Nguyen Van A", state.Order.ReceiverName)
	assert.Equal(t, 0, f.gateway.estimateCalls)
}

func TestNextFromDeliveryTriggersEstimate(t *testing.T) {
	f := newFixture()
	f.advanceToReview(t, "session-1")

	assert.Equal(t, 1, f.gateway.estimateCalls)

	state, err := f.checkout.CurrentState(context.Background(), "session-1")
	require.NoError(t, err)
	require.NotNil(t, state.Estimate)
	assert.Equal(t, 355000.0, state.Estimate.MoneyFinal)
	assert.Equal(t, 325000.0, state.Order.Total)

	// The request carried the cart lines and the draft's delivery info
	req := f.gateway.lastRequest
	require.Len(t, req.Details, 1)
	assert.Equal(t, 1, req.Details[0].ProductID)
	assert.Equal(t, 3, req.Details[0].Quantity)
	assert.Equal(t, "cod", req.Order.PaymentMethod)
	assert.Equal(t, "Nguyen Van A", req.Order.ReceiverName)
}

func TestEstimateFailureKeepsUserOnReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.fillCart(t, "session-1")
	f.fillDelivery(t, "session-1")
	f.gateway.estimateErr = errors.New("upstream down")

	_, err := f.checkout.Next(ctx, "session-1", "tok", false)
	require.NoError(t, err)

	_, err = f.checkout.Next(ctx, "session-1", "tok", false)
	require.Error(t, err)

	// Retry from Review succeeds once the upstream recovers
	state, err := f.checkout.CurrentState(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, state.Step)
	assert.Nil(t, state.Estimate)

	f.gateway.estimateErr = nil
	_, err = f.checkout.Estimate(ctx, "session-1", "tok")
	require.NoError(t, err)
}

func TestEstimateRejectsEmptyCart(t *testing.T) {
	f := newFixture()
	f.fillDelivery(t, "session-1")

	_, err := f.checkout.Estimate(context.Background(), "session-1", "tok")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNextFromReviewRequiresAcceptedTerms(t *testing.T) {
	f := newFixture()
	f.advanceToReview(t, "session-1")

	_, err := f.checkout.Next(context.Background(), "session-1", "tok", false)
	assert.ErrorIs(t, err, ErrTermsNotAccepted)
	assert.Equal(t, 0, f.gateway.createCalls)
}

func TestPlaceOrderRequiresEstimate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.fillCart(t, "session-1")
	f.fillDelivery(t, "session-1")

	// Jump the step forward without the estimate round trip
	_, err := f.order.SetProgressStep(ctx, "session-1", int(StepReview))
	require.NoError(t, err)

	_, err = f.checkout.Next(ctx, "session-1", "tok", true)
	assert.ErrorIs(t, err, ErrEstimateRequired)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.advanceToReview(t, "session-1")

	state, err := f.checkout.Next(ctx, "session-1", "tok", true)
	require.NoError(t, err)

	assert.Equal(t, StepConfirmation, state.Step)
	assert.Equal(t, "checkout", state.StepName)
	require.NotNil(t, state.Result)
	assert.Equal(t, "DH-00042", state.Result.Code)
	assert.Equal(t, 1, f.gateway.createCalls)

	// Both stores are emptied for the next purchase
	cartSnapshot, err := f.cart.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, cartSnapshot.CartItems)

	draftSnapshot, err := f.order.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, order.DefaultDraft(), draftSnapshot.Order)
	assert.Equal(t, 0, draftSnapshot.ProgressStep.Current)

	// The confirmation result remains readable
	result, err := f.checkout.Result(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 42, result.ID)
}

func TestPlaceOrderFailureLeavesStoresIntact(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.advanceToReview(t, "session-1")
	f.gateway.createErr = errors.New("upstream rejected")

	_, err := f.checkout.Next(ctx, "session-1", "tok", true)
	require.Error(t, err)

	cartSnapshot, err := f.cart.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.NotEmpty(t, cartSnapshot.CartItems)

	state, err := f.checkout.CurrentState(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, state.Step)
	assert.NotNil(t, state.Estimate)

	// The guard is released, so the same step can be retried
	f.gateway.createErr = nil
	state, err = f.checkout.Next(ctx, "session-1", "tok", true)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmation, state.Step)
	assert.Equal(t, 2, f.gateway.createCalls)
}

func TestPlaceOrderRejectsDuplicateWhileInFlight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.advanceToReview(t, "session-1")

	gate := make(chan struct{})
	f.gateway.createGate = gate

	done := make(chan error, 1)
	go func() {
		_, err := f.checkout.Next(ctx, "session-1", "tok", true)
		done <- err
	}()

	// Wait for the first call to reach the gateway
	require.Eventually(t, func() bool {
		f.gateway.mu.Lock()
		defer f.gateway.mu.Unlock()
		return f.gateway.createCalls == 1
	}, time.Second, time.Millisecond)

	_, err := f.checkout.Next(ctx, "session-1", "tok", true)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.gateway.createCalls)
}

func TestBackFromReviewDropsEstimate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.advanceToReview(t, "session-1")

	state, err := f.checkout.Back(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, state.Step)
	assert.Nil(t, state.Estimate)

	// Without an estimate, placement is blocked again
	_, err = f.order.SetProgressStep(ctx, "session-1", int(StepReview))
	require.NoError(t, err)
	_, err = f.checkout.Next(ctx, "session-1", "tok", true)
	assert.ErrorIs(t, err, ErrEstimateRequired)
}

func TestBackFromFirstStepStaysAtZero(t *testing.T) {
	f := newFixture()

	state, err := f.checkout.Back(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, StepCartConfirm, state.Step)
}

func TestNextAtConfirmationIsTerminal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.order.SetProgressStep(ctx, "session-1", int(StepConfirmation))
	require.NoError(t, err)

	state, err := f.checkout.Next(ctx, "session-1", "tok", true)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmation, state.Step)
	assert.Equal(t, 0, f.gateway.createCalls)
}

func TestResultWithoutPlacement(t *testing.T) {
	f := newFixture()

	_, err := f.checkout.Result(context.Background(), "session-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "cart-confirm", StepCartConfirm.String())
	assert.Equal(t, "delivery", StepDelivery.String())
	assert.Equal(t, "review", StepReview.String())
	assert.Equal(t, "checkout", StepConfirmation.String())
	assert.Equal(t, "unknown", Step(9).String())
}
