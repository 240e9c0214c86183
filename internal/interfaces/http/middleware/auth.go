// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookshop-storefront/internal/config"
	"github.com/your-org/bookshop-storefront/internal/pkg/auth"
)

// AuthMiddleware creates session token authentication middleware. Checkout,
// order history and profile routes require an authenticated session; the
// upstream commerce token rides in the session claims.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		// Validate session token
		claims, err := jwtManager.ValidateSessionToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store customer information in context
		c.Set("customer_id", claims.CustomerID)
		c.Set("customer_name", claims.FullName)
		c.Set("upstream_token", claims.UpstreamToken)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// OptionalAuthMiddleware provides optional authentication
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// No auth header, continue without authentication
			c.Next()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			// Invalid header format, continue without authentication
			c.Next()
			return
		}

		// Try to validate token
		claims, err := jwtManager.ValidateSessionToken(tokenString)
		if err != nil {
			// Invalid token, continue without authentication
			c.Next()
			return
		}

		// Store customer information in context if token is valid
		c.Set("customer_id", claims.CustomerID)
		c.Set("customer_name", claims.FullName)
		c.Set("upstream_token", claims.UpstreamToken)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// GetCustomerIDFromContext extracts the customer id from gin context
func GetCustomerIDFromContext(c *gin.Context) (int, bool) {
	customerID, exists := c.Get("customer_id")
	if !exists {
		return 0, false
	}
	return customerID.(int), true
}

// GetUpstreamTokenFromContext extracts the upstream commerce token from gin
// context
func GetUpstreamTokenFromContext(c *gin.Context) (string, bool) {
	token, exists := c.Get("upstream_token")
	if !exists {
		return "", false
	}
	return token.(string), true
}
