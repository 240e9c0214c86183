// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookshop-storefront/internal/commerce"
	"github.com/your-org/bookshop-storefront/internal/config"
	"github.com/your-org/bookshop-storefront/internal/domain/cart"
	"github.com/your-org/bookshop-storefront/internal/domain/checkout"
	"github.com/your-org/bookshop-storefront/internal/domain/order"
	"github.com/your-org/bookshop-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/bookshop-storefront/internal/interfaces/http/middleware"
)

// Services bundles the constructed domain services the routes depend on
type Services struct {
	Config   *config.Config
	Commerce *commerce.Client
	Cart     *cart.Service
	Order    *order.Service
	Checkout *checkout.Service
}

// SetupRoutes sets up all storefront routes
func SetupRoutes(rg *gin.RouterGroup, s *Services) {
	setupAuthRoutes(rg, s)
	setupProductRoutes(rg, s)
	setupAddressRoutes(rg, s)
	setupCartRoutes(rg, s)
	setupOrderRoutes(rg, s)
	setupCheckoutRoutes(rg, s)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, s *Services) {
	authHandler := handlers.NewAuthHandler(s.Commerce, s.Config)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(s.Config))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// setupProductRoutes sets up product browsing routes
func setupProductRoutes(rg *gin.RouterGroup, s *Services) {
	productHandler := handlers.NewProductHandler(s.Commerce, s.Config)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// setupAddressRoutes sets up the address hierarchy lookup routes
func setupAddressRoutes(rg *gin.RouterGroup, s *Services) {
	addressHandler := handlers.NewAddressHandler(s.Commerce, s.Config)

	address := rg.Group("/address")
	{
		address.GET("/cities", addressHandler.GetCities)
		address.GET("/districts", addressHandler.GetDistricts)
		address.GET("/wards", addressHandler.GetWards)
	}
}

// setupCartRoutes sets up cart routes, available to guest sessions
func setupCartRoutes(rg *gin.RouterGroup, s *Services) {
	cartHandler := handlers.NewCartHandler(s.Cart, s.Config)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(s.Config))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// setupOrderRoutes sets up order history routes
func setupOrderRoutes(rg *gin.RouterGroup, s *Services) {
	orderHandler := handlers.NewOrderHandler(s.Commerce, s.Config)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(s.Config)) // All order routes require authentication
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
	}
}

// setupCheckoutRoutes sets up the checkout wizard routes
func setupCheckoutRoutes(rg *gin.RouterGroup, s *Services) {
	checkoutHandler := handlers.NewCheckoutHandler(s.Checkout, s.Order, s.Config)

	// Checkout requires an authenticated session
	co := rg.Group("/checkout")
	co.Use(middleware.AuthMiddleware(s.Config))
	{
		co.GET("", checkoutHandler.GetState)
		co.POST("/next", checkoutHandler.Next)
		co.POST("/back", checkoutHandler.Back)
		co.POST("/estimate", checkoutHandler.Estimate)
		co.PUT("/draft", checkoutHandler.UpdateDraft)
		co.PUT("/step", checkoutHandler.SetStep)
		co.POST("/reset", checkoutHandler.Reset)
		co.GET("/result", checkoutHandler.Result)
	}
}
