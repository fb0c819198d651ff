package repository

import (
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(item *model.CartItem) error
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindByUserAndGame(userID, gameID uint) (*model.CartItem, error)
	FindByUserAndBundle(userID, bundleID uint) (*model.CartItem, error)
	DeleteByUserAndGame(userID, gameID uint) error
	DeleteByUserAndBundle(userID, bundleID uint) error
	DeleteByUserID(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":   item.UserID,
		"game_id":   item.GameID,
		"bundle_id": item.BundleID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":   item.UserID,
			"game_id":   item.GameID,
			"bundle_id": item.BundleID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Game").
		Preload("Bundle").
		Preload("Bundle.Games").
		Order("cart_items.created_at ASC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindByUserAndGame(userID, gameID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindByUserAndBundle(userID, bundleID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("user_id = ? AND bundle_id = ?", userID, bundleID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) DeleteByUserAndGame(userID, gameID uint) error {
	err := r.db.Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&model.CartItem{}).Error
	if err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserAndBundle(userID, bundleID uint) error {
	err := r.db.Where("user_id = ? AND bundle_id = ?", userID, bundleID).
		Delete(&model.CartItem{}).Error
	if err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"user_id":   userID,
			"bundle_id": bundleID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	if err != nil {
		logger.Error("Failed to clear cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
