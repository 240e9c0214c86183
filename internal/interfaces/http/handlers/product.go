// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/config"
)

// ProductHandler handles product browsing endpoints, passing through to the
// commerce platform's catalog
type ProductHandler struct {
	client *commerce.Client
	config *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(client *commerce.Client, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		client: client,
		config: cfg,
	}
}

// GetProducts handles GET /products with optional search, category and
// pagination query parameters
func (h *ProductHandler) GetProducts(c *gin.Context) {
	req := commerce.ListProductsRequest{
		Search: c.Query("search"),
	}
	if categoryID, err := strconv.Atoi(c.Query("productCategoryId")); err == nil {
		req.CategoryID = categoryID
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		req.Limit = limit
	}

	list, err := h.client.ListProducts(c.Request.Context(), req)
	if err != nil {
		renderUpstreamError(c, err, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, err := h.client.GetProduct(c.Request.Context(), id)
	if err != nil {
		renderUpstreamError(c, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": product,
	})
}

// renderUpstreamError maps a commerce platform failure to an HTTP response.
// Upstream 404s pass through; everything else is a gateway failure.
func renderUpstreamError(c *gin.Context, err error, fallback string) {
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": apiErr.Message,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": apiErr.Message,
		})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{
		"error": fallback,
	})
}
