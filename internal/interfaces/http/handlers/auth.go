// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/config"
	"github.com/your-org/bookshop-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/bookshop-storefront/internal/pkg/auth"
)

// AuthHandler handles the identity lifecycle. Credentials are verified by
// the commerce platform; the storefront only wraps the platform token in its
// own signed session token.
type AuthHandler struct {
	client     *commerce.Client
	jwtManager *auth.JWTManager
	config     *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *commerce.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		client:     client,
		jwtManager: auth.NewJWTManager(cfg),
		config:     cfg,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	upstreamToken, err := h.client.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		renderAuthError(c, err, "Login failed")
		return
	}

	profile, err := h.client.GetProfile(c.Request.Context(), upstreamToken)
	if err != nil {
		renderAuthError(c, err, "Failed to retrieve profile")
		return
	}

	sessionToken, err := h.jwtManager.GenerateSessionToken(profile.ID, profile.FullName, upstreamToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": sessionToken,
		"data":  profile,
	})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.client.Register(c.Request.Context(), commerce.RegisterRequest{
		Customer: commerce.RegisterCustomer{
			Email:    req.Email,
			FullName: req.FullName,
			Phone:    req.Phone,
			Password: req.Password,
		},
	})
	if err != nil {
		renderAuthError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
	})
}

// GetProfile handles GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	token, _ := middleware.GetUpstreamTokenFromContext(c)

	profile, err := h.client.GetProfile(c.Request.Context(), token)
	if err != nil {
		renderAuthError(c, err, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": profile,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := middleware.GetUpstreamTokenFromContext(c)

	if err := h.client.Logout(c.Request.Context(), token); err != nil {
		renderAuthError(c, err, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// renderAuthError maps platform auth failures to HTTP responses, passing
// upstream 4xx statuses through so the client sees the platform's message
func renderAuthError(c *gin.Context, err error, fallback string) {
	if apiErr, ok := err.(*commerce.APIError); ok && apiErr.StatusCode < 500 {
		c.JSON(apiErr.StatusCode, gin.H{
			"error": apiErr.Message,
		})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{
		"error": fallback,
	})
}
