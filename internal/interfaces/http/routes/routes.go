// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shopvn/storefront/internal/interfaces/http/handlers"
	"github.com/shopvn/storefront/internal/interfaces/http/middleware"
	"github.com/shopvn/storefront/internal/pkg/auth"
)

// Handlers groups everything the API routes dispatch to
type Handlers struct {
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Cart       *handlers.CartHandler
	Admin      *handlers.AdminHandler
	JWT        *auth.JWTManager
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler) {
	products := rg.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/search", h.SearchProducts)
		products.GET("/slug/:slug", h.GetProductBySlug)
	}
}

// SetupCategoryRoutes sets up category navigation routes
func SetupCategoryRoutes(rg *gin.RouterGroup, h *handlers.CategoryHandler) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.GetCategories)
		categories.GET("/:slug", h.GetCategoryPage)
	}
}

// SetupCartRoutes sets up cart routes keyed by the cart token cookie
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.GET("/count", h.GetCartCount)
		cart.GET("/contains", h.IsInCart)
		cart.POST("/items", h.AddToCart)
		cart.PUT("/items/:id", h.UpdateCartItem)
		cart.DELETE("/items/:id", h.RemoveFromCart)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *handlers.AdminHandler, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.POST("/login", h.Login)

	protected := admin.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager)) // Require authentication
	protected.Use(middleware.AdminMiddleware())          // Require admin privileges
	{
		protected.GET("/products", h.ListProducts)
		protected.GET("/products/export", h.ExportProducts)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, h Handlers) {
	SetupProductRoutes(rg, h.Products)
	SetupCategoryRoutes(rg, h.Categories)
	SetupCartRoutes(rg, h.Cart)
	SetupAdminRoutes(rg, h.Admin, h.JWT)
}
