package db

import (
	"fmt"
	"log"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing.
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB closes the test database.
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}
