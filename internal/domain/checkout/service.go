// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/domain/cart"
	"github.com/your-org/bookshop-storefront/internal/domain/order"
	"github.com/your-org/bookshop-storefront/internal/infrastructure/storage"
)

// Step is a wizard position in the linear checkout flow
type Step int

// The four checkout steps, in order
const (
	StepCartConfirm Step = iota
	StepDelivery
	StepReview
	StepConfirmation
)

// String returns the step's display name
func (s Step) String() string {
	switch s {
	case StepCartConfirm:
		return "cart-confirm"
	case StepDelivery:
		return "delivery"
	case StepReview:
		return "review"
	case StepConfirmation:
		return "checkout"
	default:
		return "unknown"
	}
}

// resultTTL bounds how long estimates and confirmation results survive
const resultTTL = 24 * time.Hour

var (
	// ErrEmptyCart is returned when estimation or placement runs against
	// an empty cart
	ErrEmptyCart = errors.New("checkout: cart is empty")

	// ErrTermsNotAccepted rejects order placement until the user accepts
	// the terms on the review step
	ErrTermsNotAccepted = errors.New("checkout: terms must be accepted before placing the order")

	// ErrEstimateRequired rejects order placement until a successful
	// estimate round trip has completed
	ErrEstimateRequired = errors.New("checkout: order must be estimated before placing")

	// ErrSubmissionInFlight rejects duplicate placement triggers while a
	// creation call has not settled
	ErrSubmissionInFlight = errors.New("checkout: order submission already in progress")
)

// ValidationError reports the delivery fields still missing when a forward
// transition is rejected. The step index is left unchanged.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: missing required delivery fields: %s", strings.Join(e.MissingFields, ", "))
}

// Gateway is the slice of the commerce platform the checkout flow talks to
type Gateway interface {
	EstimateOrder(ctx context.Context, token string, req commerce.OrderRequest) (*commerce.Estimate, error)
	CreateOrder(ctx context.Context, token string, req commerce.OrderRequest) (*commerce.CreatedOrder, error)
}

// State is the flow's view of a session: current step, draft under
// construction, the stored estimate (present once Review has been entered
// successfully) and the created order (present after Confirmation).
type State struct {
	Step     Step                   `json:"step"`
	StepName string                 `json:"stepName"`
	Order    order.Draft            `json:"order"`
	Estimate *commerce.Estimate     `json:"estimate,omitempty"`
	Result   *commerce.CreatedOrder `json:"result,omitempty"`
}

// Service sequences the four checkout steps, gates forward progression on
// completeness, and coordinates the cart and draft stores with the commerce
// platform
type Service struct {
	cartService  *cart.Service
	orderService *order.Service
	gateway      Gateway
	store        storage.Store
	logger       *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]bool // one-shot submission guard per session
}

// NewService creates a new checkout flow service
func NewService(cartService *cart.Service, orderService *order.Service, gateway Gateway, store storage.Store, logger *logrus.Logger) *Service {
	return &Service{
		cartService:  cartService,
		orderService: orderService,
		gateway:      gateway,
		store:        store,
		logger:       logger,
		inFlight:     make(map[string]bool),
	}
}

// CurrentState returns the session's flow state
func (s *Service) CurrentState(ctx context.Context, sessionID string) (*State, error) {
	snapshot, err := s.orderService.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.stateFor(ctx, sessionID, snapshot), nil
}

// Next advances the wizard one step forward.
//
// CartConfirm → Delivery is unconditional. Delivery → Review requires the
// six delivery fields and triggers an estimate round trip on entry.
// Review → Confirmation requires accepted terms plus a completed estimate
// and triggers one-shot order placement. Confirmation is terminal.
func (s *Service) Next(ctx context.Context, sessionID, token string, acceptTerms bool) (*State, error) {
	snapshot, err := s.orderService.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch Step(snapshot.ProgressStep.Current) {
	case StepCartConfirm:
		snapshot, err = s.orderService.SetProgressStep(ctx, sessionID, int(StepDelivery))
		if err != nil {
			return nil, err
		}
		return s.stateFor(ctx, sessionID, snapshot), nil

	case StepDelivery:
		if missing := missingDeliveryFields(snapshot.Order); len(missing) > 0 {
			return nil, &ValidationError{MissingFields: missing}
		}
		snapshot, err = s.orderService.SetProgressStep(ctx, sessionID, int(StepReview))
		if err != nil {
			return nil, err
		}
		// Entering Review triggers estimation; a failure leaves the
		// user on Review with a retry affordance.
		if _, err := s.Estimate(ctx, sessionID, token); err != nil {
			return nil, err
		}
		snapshot, err = s.orderService.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return s.stateFor(ctx, sessionID, snapshot), nil

	case StepReview:
		if !acceptTerms {
			return nil, ErrTermsNotAccepted
		}
		return s.placeOrder(ctx, sessionID, token)

	default:
		// Confirmation is terminal; the wizard does not auto-advance.
		return s.stateFor(ctx, sessionID, snapshot), nil
	}
}

// Back moves the wizard one step backward. Backward transitions are always
// permitted; backing out of Review drops the stored estimate.
func (s *Service) Back(ctx context.Context, sessionID string) (*State, error) {
	snapshot, err := s.orderService.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	current := Step(snapshot.ProgressStep.Current)
	if current == StepReview {
		if err := s.store.Delete(ctx, estimateKey(sessionID)); err != nil {
			return nil, fmt.Errorf("failed to drop estimate: %w", err)
		}
	}

	snapshot, err = s.orderService.SetProgressStep(ctx, sessionID, int(current)-1)
	if err != nil {
		return nil, err
	}
	return s.stateFor(ctx, sessionID, snapshot), nil
}

// Estimate runs an estimate round trip for the session's current draft and
// cart contents and persists the result. It is triggered on Review entry and
// may be re-triggered for retry, or to refresh a stale estimate after the
// cart changed while on Review.
func (s *Service) Estimate(ctx context.Context, sessionID, token string) (*commerce.Estimate, error) {
	draftSnapshot, err := s.orderService.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cartSnapshot, err := s.cartService.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cartSnapshot.CartItems) == 0 {
		return nil, ErrEmptyCart
	}

	req := buildOrderRequest(draftSnapshot.Order, cartSnapshot.CartItems)
	estimate, err := s.gateway.EstimateOrder(ctx, token, req)
	if err != nil {
		s.logger.WithField("session_id", sessionID).WithError(err).Warn("Order estimation failed")
		return nil, err
	}

	if err := s.store.Save(ctx, estimateKey(sessionID), estimate, resultTTL); err != nil {
		return nil, fmt.Errorf("failed to persist estimate: %w", err)
	}

	// The displayed total tracks the platform's product + shipping money
	total := estimate.MoneyProduct + estimate.ShipFee
	if _, err := s.orderService.SetOrder(ctx, sessionID, order.DraftPatch{Total: &total}); err != nil {
		return nil, err
	}

	return estimate, nil
}

// Result returns the created-order summary stored after a successful
// placement, or storage.ErrNotFound if the session has not placed an order
func (s *Service) Result(ctx context.Context, sessionID string) (*commerce.CreatedOrder, error) {
	var result commerce.CreatedOrder
	if err := s.store.Load(ctx, resultKey(sessionID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// placeOrder performs the one-shot order creation. Duplicate triggers while
// a creation call is in flight are rejected; the guard is released on
// failure so the same step can be retried.
func (s *Service) placeOrder(ctx context.Context, sessionID, token string) (*State, error) {
	s.mu.Lock()
	if s.inFlight[sessionID] {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.inFlight[sessionID] = true
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		delete(s.inFlight, sessionID)
		s.mu.Unlock()
	}

	var estimate commerce.Estimate
	if err := s.store.Load(ctx, estimateKey(sessionID), &estimate); err != nil {
		release()
		if err == storage.ErrNotFound {
			return nil, ErrEstimateRequired
		}
		return nil, err
	}

	draftSnapshot, err := s.orderService.Get(ctx, sessionID)
	if err != nil {
		release()
		return nil, err
	}
	cartSnapshot, err := s.cartService.GetCart(ctx, sessionID)
	if err != nil {
		release()
		return nil, err
	}
	if len(cartSnapshot.CartItems) == 0 {
		release()
		return nil, ErrEmptyCart
	}

	req := buildOrderRequest(draftSnapshot.Order, cartSnapshot.CartItems)
	created, err := s.gateway.CreateOrder(ctx, token, req)
	if err != nil {
		// Release the guard so the user can retry; cart and draft are
		// left intact.
		release()
		s.logger.WithField("session_id", sessionID).WithError(err).Error("Order creation failed")
		return nil, err
	}

	if err := s.store.Save(ctx, resultKey(sessionID), created, resultTTL); err != nil {
		s.logger.WithField("session_id", sessionID).WithError(err).Warn("Failed to persist order result")
	}
	if err := s.store.Delete(ctx, estimateKey(sessionID)); err != nil {
		s.logger.WithField("session_id", sessionID).WithError(err).Warn("Failed to drop estimate")
	}

	// Successful placement empties both stores for the next purchase.
	if err := s.cartService.ClearCart(ctx, sessionID); err != nil {
		s.logger.WithField("session_id", sessionID).WithError(err).Warn("Failed to clear cart after order placement")
	}
	if _, err := s.orderService.ResetOrder(ctx, sessionID); err != nil {
		s.logger.WithField("session_id", sessionID).WithError(err).Warn("Failed to reset draft after order placement")
	}
	release()

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_code": created.Code,
	}).Info("Order placed successfully")

	return &State{
		Step:     StepConfirmation,
		StepName: StepConfirmation.String(),
		Order:    order.DefaultDraft(),
		Result:   created,
	}, nil
}

// stateFor assembles the flow state for a draft snapshot, attaching the
// stored estimate and placement result when present
func (s *Service) stateFor(ctx context.Context, sessionID string, snapshot *order.Snapshot) *State {
	state := &State{
		Step:     Step(snapshot.ProgressStep.Current),
		StepName: Step(snapshot.ProgressStep.Current).String(),
		Order:    snapshot.Order,
	}

	var estimate commerce.Estimate
	if err := s.store.Load(ctx, estimateKey(sessionID), &estimate); err == nil {
		state.Estimate = &estimate
	}

	var result commerce.CreatedOrder
	if err := s.store.Load(ctx, resultKey(sessionID), &result); err == nil {
		state.Result = &result
	}

	return state
}

// missingDeliveryFields reports which of the six required delivery fields
// are still empty
func missingDeliveryFields(draft order.Draft) []string {
	var missing []string
	if draft.ReceiverName == "" {
		missing = append(missing, "receiverName")
	}
	if draft.ReceiverPhone == "" {
		missing = append(missing, "receiverPhone")
	}
	if draft.ReceiverAddress == "" {
		missing = append(missing, "receiverAddress")
	}
	if draft.CityID == nil {
		missing = append(missing, "cityId")
	}
	if draft.DistrictID == nil {
		missing = append(missing, "districtId")
	}
	if draft.WardID == nil {
		missing = append(missing, "wardId")
	}
	return missing
}

// buildOrderRequest transforms the draft and the cart's current contents
// into the estimate/create payload. The cart is read at call time; the draft
// holds no product lines of its own.
func buildOrderRequest(draft order.Draft, items []cart.CartItem) commerce.OrderRequest {
	details := make([]commerce.OrderDetail, len(items))
	for i, item := range items {
		details[i] = commerce.OrderDetail{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Name:      item.Name,
		}
	}

	paymentMethod := draft.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	return commerce.OrderRequest{
		Order: commerce.OrderInfo{
			PaymentMethod:   paymentMethod,
			ReceiverName:    draft.ReceiverName,
			ReceiverPhone:   draft.ReceiverPhone,
			ReceiverAddress: draft.ReceiverAddress,
			IsFreeShip:      draft.IsFreeShip,
			Note:            draft.Note,
		},
		Details:    details,
		CityID:     draft.CityID,
		DistrictID: draft.DistrictID,
		WardID:     draft.WardID,
	}
}

func estimateKey(sessionID string) string {
	return fmt.Sprintf("checkout:estimate:session:%s", sessionID)
}

func resultKey(sessionID string) string {
	return fmt.Sprintf("checkout:result:session:%s", sessionID)
}
