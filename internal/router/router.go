package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pressplay/pressplay-backend/config"
	"github.com/pressplay/pressplay-backend/internal/app/controller"
	"github.com/pressplay/pressplay-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	gameController     *controller.GameController
	bundleController   *controller.BundleController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	wishlistController *controller.WishlistController
	libraryController  *controller.LibraryController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	gameController *controller.GameController,
	bundleController *controller.BundleController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	wishlistController *controller.WishlistController,
	libraryController *controller.LibraryController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		gameController:     gameController,
		bundleController:   bundleController,
		cartController:     cartController,
		orderController:    orderController,
		wishlistController: wishlistController,
		libraryController:  libraryController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "PressPlay API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authMiddleware.OptionalAuthenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		// Catalog routes resolve ownership and wishlist flags when a
		// valid token is present, and stay public otherwise.
		games := v1.Group("/games")
		{
			games.GET("", r.authMiddleware.OptionalAuthenticate(), r.gameController.ListGames)
			games.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.gameController.GetGame)
			games.POST("/:id/rating", r.authMiddleware.Authenticate(), r.gameController.RateGame)
		}

		bundles := v1.Group("/bundles")
		{
			bundles.GET("", r.authMiddleware.OptionalAuthenticate(), r.bundleController.ListBundles)
			bundles.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.bundleController.GetBundle)
		}

		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/games", r.cartController.AddGame)
			cart.DELETE("/games/:game_id", r.cartController.RemoveGame)
			cart.POST("/bundles", r.cartController.AddBundle)
			cart.DELETE("/bundles/:bundle_id", r.cartController.RemoveBundle)
		}

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("/checkout", r.orderController.Checkout)
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		wishlist := v1.Group("/wishlist", r.authMiddleware.Authenticate())
		{
			wishlist.GET("", r.wishlistController.GetWishlist)
			wishlist.GET("/:game_id", r.wishlistController.CheckGame)
			wishlist.POST("/:game_id/toggle", r.wishlistController.Toggle)
		}

		library := v1.Group("/library", r.authMiddleware.Authenticate())
		{
			library.GET("", r.libraryController.GetLibrary)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			admin.POST("/games", r.gameController.CreateGame)
			admin.PUT("/games/:id", r.gameController.UpdateGame)
			admin.DELETE("/games/:id", r.gameController.DeleteGame)

			admin.POST("/bundles", r.bundleController.CreateBundle)
			admin.PUT("/bundles/:id", r.bundleController.UpdateBundle)
			admin.DELETE("/bundles/:id", r.bundleController.DeleteBundle)

			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)

			admin.POST("/library/grant", r.libraryController.GrantGame)

			admin.POST("/upload/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
