package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pressplay/pressplay-backend/config"
	"github.com/pressplay/pressplay-backend/internal/app/controller"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/internal/app/service"
	"github.com/pressplay/pressplay-backend/internal/db"
	"github.com/pressplay/pressplay-backend/internal/middleware"
	"github.com/pressplay/pressplay-backend/internal/router"
	"github.com/pressplay/pressplay-backend/internal/scheduler"
	"github.com/pressplay/pressplay-backend/internal/storage"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"github.com/pressplay/pressplay-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting PressPlay Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (optional, used for token revocation)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
			cfg.Redis.Enabled = false
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	gameRepo := repository.NewGameRepository(db.GetDB())
	bundleRepo := repository.NewBundleRepository(db.GetDB())
	ratingRepo := repository.NewRatingRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	libraryRepo := repository.NewLibraryRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.Redis.Enabled,
	)
	gameService := service.NewGameService(gameRepo, ratingRepo, libraryRepo, wishlistRepo)
	bundleService := service.NewBundleService(bundleRepo, libraryRepo, wishlistRepo)
	// Cart and checkout must serialize against the same per-user locks.
	userLocks := service.NewUserLocks()
	cartService := service.NewCartService(cartRepo, gameRepo, bundleRepo, libraryRepo, userLocks)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB(), userLocks)
	libraryService := service.NewLibraryService(libraryRepo, gameRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, gameRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	gameController := controller.NewGameController(gameService)
	bundleController := controller.NewBundleController(bundleService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	wishlistController := controller.NewWishlistController(wishlistService)
	libraryController := controller.NewLibraryController(libraryService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.Redis.Enabled)

	// Start the discount expiry scheduler
	discountScheduler := scheduler.NewDiscountScheduler(gameRepo)
	if err := discountScheduler.Start(); err != nil {
		logger.Error("Failed to start discount scheduler", err)
	}
	defer discountScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		gameController,
		bundleController,
		cartController,
		orderController,
		wishlistController,
		libraryController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
