package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"techshop-backend/internal/handlers"
	"techshop-backend/internal/logger"
	"techshop-backend/internal/middleware"
)

// SetupRouter configures the Gin router with all application routes.
func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())

	// CORS so the storefront and admin SPA can call the API from another
	// origin during development.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Every request gets a session cookie so carts and preferences work for
	// anonymous visitors too.
	router.Use(middleware.Session())

	v1 := router.Group("/v1")
	{
		// --- Health Check ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		// --- Public Routes (Catalog, Cart, Checkout) ---
		v1.GET("/products", h.GetProducts)
		v1.GET("/products/search", h.SearchProducts)
		v1.GET("/products/featured", h.GetFeaturedProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/categories", h.GetCategories)

		v1.GET("/cart", h.GetCart)
		v1.GET("/cart/count", h.GetCartCount)
		v1.POST("/cart/items", h.AddToCart)
		v1.PUT("/cart/items/:product_id", h.UpdateCartItem)
		v1.DELETE("/cart/items/:product_id", h.DeleteCartItem)

		v1.POST("/checkout", h.Checkout)
		v1.GET("/orders/:id", h.GetOrder)
		v1.POST("/orders/track", h.TrackOrder)

		v1.GET("/prefs", h.GetPreferences)
		v1.POST("/prefs/language", h.SetLanguage)
		v1.POST("/prefs/theme", h.SetTheme)

		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)
		v1.POST("/admin/login", h.AdminLogin)

		// --- Authenticated Routes (Profile, Wishlist, Reviews) ---
		authed := v1.Group("/")
		authed.Use(middleware.AuthRequired())
		{
			authed.GET("/profile/me", h.GetProfile)
			authed.PUT("/profile/me", h.UpdateProfile)
			authed.GET("/profile/orders", h.GetMyOrders)

			authed.GET("/wishlist", h.GetWishlist)
			authed.POST("/wishlist", h.AddToWishlist)
			authed.DELETE("/wishlist/:productId", h.RemoveFromWishlist)
			authed.POST("/wishlist/:productId/move-to-cart", h.MoveToCart)

			authed.POST("/products/:id/reviews", h.AddReview)
		}

		// --- Admin Routes (Admin Token Required) ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", h.GetDashboardStats)
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)
			admin.GET("/orders", h.GetAllOrders)
			admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
		}
	}

	return router
}
