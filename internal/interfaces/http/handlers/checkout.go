// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/config"
	"github.com/your-org/bookshop-storefront/internal/domain/checkout"
	"github.com/your-org/bookshop-storefront/internal/domain/order"
	"github.com/your-org/bookshop-storefront/internal/infrastructure/storage"
	"github.com/your-org/bookshop-storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the checkout wizard endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	orderService    *order.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, orderService *order.Service, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		config:          cfg,
	}
}

// NextRequest represents a forward transition trigger
type NextRequest struct {
	AcceptTerms bool `json:"acceptTerms"`
}

// SetStepRequest represents a direct step jump (edit affordances on the
// review step). Only backward jumps are permitted.
type SetStepRequest struct {
	Step int `json:"step"`
}

// GetState handles GET /checkout
func (h *CheckoutHandler) GetState(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)

	state, err := h.checkoutService.CurrentState(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout state",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": state,
	})
}

// Next handles POST /checkout/next
func (h *CheckoutHandler) Next(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)
	token, _ := middleware.GetUpstreamTokenFromContext(c)

	// Body is optional; only the review step sends acceptTerms.
	var req NextRequest
	_ = c.ShouldBindJSON(&req)

	state, err := h.checkoutService.Next(c.Request.Context(), sessionID, token, req.AcceptTerms)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": state,
	})
}

// Back handles POST /checkout/back
func (h *CheckoutHandler) Back(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)

	state, err := h.checkoutService.Back(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to step back",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": state,
	})
}

// Estimate handles POST /checkout/estimate, used to retry a failed estimate
// or refresh one after the cart changed while on the review step
func (h *CheckoutHandler) Estimate(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)
	token, _ := middleware.GetUpstreamTokenFromContext(c)

	estimate, err := h.checkoutService.Estimate(c.Request.Context(), sessionID, token)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": estimate,
	})
}

// UpdateDraft handles PUT /checkout/draft
func (h *CheckoutHandler) UpdateDraft(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)

	var patch order.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot, err := h.orderService.SetOrder(c.Request.Context(), sessionID, patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update order draft",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": snapshot,
	})
}

// SetStep handles PUT /checkout/step. Forward jumps must go through Next so
// validation cannot be skipped.
func (h *CheckoutHandler) SetStep(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)

	var req SetStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot, err := h.orderService.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout state",
		})
		return
	}

	if req.Step > snapshot.ProgressStep.Current {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Forward transitions must go through /checkout/next",
		})
		return
	}

	if _, err := h.orderService.SetProgressStep(c.Request.Context(), sessionID, req.Step); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update checkout step",
		})
		return
	}

	state, err := h.checkoutService.CurrentState(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout state",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": state,
	})
}

// Reset handles POST /checkout/reset, invoked when checkout is abandoned
// back to product browsing
func (h *CheckoutHandler) Reset(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)

	if _, err := h.orderService.ResetOrder(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to reset order draft",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order draft reset",
	})
}

// Result handles GET /checkout/result
func (h *CheckoutHandler) Result(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c)

	result, err := h.checkoutService.Result(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No placed order for this session",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order result",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// renderCheckoutError maps flow errors to HTTP responses
func (h *CheckoutHandler) renderCheckoutError(c *gin.Context, err error) {
	var validationErr *checkout.ValidationError
	var apiErr *commerce.APIError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Missing required delivery fields",
			"missingFields": validationErr.MissingFields,
		})
	case errors.Is(err, checkout.ErrTermsNotAccepted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Terms must be accepted before placing the order",
		})
	case errors.Is(err, checkout.ErrEstimateRequired):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order must be estimated before placing",
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order submission already in progress",
		})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": apiErr.Message,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout operation failed",
		})
	}
}
