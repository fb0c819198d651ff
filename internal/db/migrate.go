package db

import (
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
)

// Migrate runs database migrations.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Genre{},
		&model.Platform{},
		&model.Company{},
		&model.Game{},
		&model.Screenshot{},
		&model.Rating{},
		&model.Bundle{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderBundleItem{},
		&model.LibraryEntry{},
		&model.WishlistItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
