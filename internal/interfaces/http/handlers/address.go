// internal/interfaces/http/handlers/address.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/config"
)

// AddressHandler handles the address hierarchy lookups backing the delivery
// step's city → district → ward selects
type AddressHandler struct {
	client *commerce.Client
	config *config.Config
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(client *commerce.Client, cfg *config.Config) *AddressHandler {
	return &AddressHandler{
		client: client,
		config: cfg,
	}
}

// GetCities handles GET /address/cities
func (h *AddressHandler) GetCities(c *gin.Context) {
	cities, err := h.client.GetCities(c.Request.Context())
	if err != nil {
		renderUpstreamError(c, err, "Failed to retrieve cities")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"cities": cities},
	})
}

// GetDistricts handles GET /address/districts?parentCode=
func (h *AddressHandler) GetDistricts(c *gin.Context) {
	parentCode, err := strconv.Atoi(c.Query("parentCode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "parentCode query parameter required",
		})
		return
	}

	districts, err := h.client.GetDistricts(c.Request.Context(), parentCode)
	if err != nil {
		renderUpstreamError(c, err, "Failed to retrieve districts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"districts": districts},
	})
}

// GetWards handles GET /address/wards?parentCode=
func (h *AddressHandler) GetWards(c *gin.Context) {
	parentCode, err := strconv.Atoi(c.Query("parentCode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "parentCode query parameter required",
		})
		return
	}

	wards, err := h.client.GetWards(c.Request.Context(), parentCode)
	if err != nil {
		renderUpstreamError(c, err, "Failed to retrieve wards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"wards": wards},
	})
}
