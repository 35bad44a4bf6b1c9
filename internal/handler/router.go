package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trendora/storefront/internal/config"
	"trendora/storefront/internal/handler/middleware"
	jwtpkg "trendora/storefront/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	sessionHandler *SessionHandler,
	cartHandler *CartHandler,
	conversationHandler *ConversationHandler,
	productHandler *ProductHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/session/login", sessionHandler.Login)
		public.GET("/products", productHandler.List)
		public.GET("/products/:productId", productHandler.Get)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.POST("/session/logout", sessionHandler.Logout)
		protected.POST("/session/activity", sessionHandler.Activity)
		protected.GET("/session/me", sessionHandler.Me)

		protected.GET("/cart", cartHandler.GetCart)
		protected.GET("/cart/count", cartHandler.CartCount)
		protected.GET("/cart/total", cartHandler.CartAmount)
		protected.POST("/cart/:productId", cartHandler.AddToCart)
		protected.PUT("/cart/:productId", cartHandler.UpdateQuantity)

		protected.GET("/wishlist", cartHandler.GetWishlist)
		protected.GET("/wishlist/count", cartHandler.WishlistCount)
		protected.POST("/wishlist/:productId", cartHandler.ToggleWishlist)

		protected.GET("/conversations", conversationHandler.List)
	}

	return r
}
