// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/config"
	"github.com/your-org/bookshop-storefront/internal/interfaces/http/middleware"
)

// OrderHandler handles order history endpoints for authenticated customers
type OrderHandler struct {
	client *commerce.Client
	config *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(client *commerce.Client, cfg *config.Config) *OrderHandler {
	return &OrderHandler{
		client: client,
		config: cfg,
	}
}

// GetOrders handles GET /orders. An empty history is not an error.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	token, _ := middleware.GetUpstreamTokenFromContext(c)

	orders, err := h.client.GetOrders(c.Request.Context(), token)
	if err != nil {
		renderUpstreamError(c, err, "Failed to retrieve orders")
		return
	}
	if orders == nil {
		orders = []commerce.Order{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"orders": orders},
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	token, _ := middleware.GetUpstreamTokenFromContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, err := h.client.GetOrder(c.Request.Context(), token, id)
	if err != nil {
		renderUpstreamError(c, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": order,
	})
}
