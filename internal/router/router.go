// internal/router/router.go
package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/babamama/storefront/internal/config"
	"github.com/babamama/storefront/internal/handlers"
	"github.com/babamama/storefront/internal/middleware"
	"github.com/babamama/storefront/internal/services"
	"github.com/babamama/storefront/internal/utils"
)

const Version = "1.0.0"

// Initialize builds the HTTP engine. Rate limiter cleanup runs until ctx is done.
// ping backs the health check and may be nil.
func Initialize(ctx context.Context, svcs *services.Services, cfg *config.Config, ping func(context.Context) error) *gin.Engine {
	// Initialize handlers
	productHandler := handlers.NewProductHandler(svcs.Catalog)
	orderHandler := handlers.NewOrderHandler(svcs.Orders)
	cartHandler := handlers.NewCartHandler(svcs.Carts)
	userHandler := handlers.NewUserHandler(svcs.Customers, svcs.Orders, svcs.Favorites)
	healthHandler := handlers.NewHealthHandler(ping, Version)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	generalLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	lookupLimiter := middleware.PerMinute(cfg.RateLimit.LookupsPerMinute, cfg.RateLimit.LookupBurst)
	generalLimiter.StartCleanup(ctx)
	lookupLimiter.StartCleanup(ctx)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())

	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(generalLimiter.Middleware(), middleware.OptionalAuth())
	{
		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/facets", productHandler.GetFacets)
			products.GET("/promos", productHandler.GetPromotions)
			products.GET("/flash-sale", productHandler.GetFlashSale)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Order routes
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.POST("/lookup", lookupLimiter.Middleware(), orderHandler.LookupOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Cart routes (anonymous, keyed by X-Cart-Session)
		carts := v1.Group("/cart")
		{
			carts.GET("", cartHandler.GetCart)
			carts.DELETE("", cartHandler.ClearCart)
			carts.POST("/items", cartHandler.AddItem)
			carts.PUT("/items/:productId", cartHandler.UpdateItem)
			carts.DELETE("/items/:productId", cartHandler.RemoveItem)
			carts.POST("/checkout", cartHandler.Checkout)
		}

		// Customer routes
		v1.POST("/customers/lookup-email", lookupLimiter.Middleware(), userHandler.LookupEmail)

		me := v1.Group("/me")
		me.Use(middleware.AuthRequired())
		{
			me.GET("", userHandler.GetProfile)
			me.POST("", userHandler.CreateProfile)
			me.PUT("", userHandler.UpdateProfile)
			me.GET("/orders", userHandler.GetOrders)
			me.GET("/favorites", userHandler.GetFavorites)
			me.GET("/favorites/ids", userHandler.GetFavoriteIDs)
			me.POST("/favorites/:productId", userHandler.AddFavorite)
			me.DELETE("/favorites/:productId", userHandler.RemoveFavorite)
		}
	}

	return r
}
