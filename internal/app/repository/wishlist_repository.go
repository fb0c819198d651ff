package repository

import (
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	Create(item *model.WishlistItem) error
	FindByUserAndGame(userID, gameID uint) (*model.WishlistItem, error)
	FindByUserID(userID uint) ([]model.WishlistItem, error)
	Delete(userID, gameID uint) error
	GameIDs(userID uint) ([]uint, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Create(item *model.WishlistItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create wishlist item in database", err, map[string]interface{}{
			"user_id": item.UserID,
			"game_id": item.GameID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) FindByUserAndGame(userID, gameID uint) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) FindByUserID(userID uint) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Game").
		Order("wishlist_items.created_at DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find wishlist items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) Delete(userID, gameID uint) error {
	err := r.db.Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&model.WishlistItem{}).Error
	if err != nil {
		logger.Error("Failed to delete wishlist item in database", err, map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) GameIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.WishlistItem{}).
		Where("user_id = ?", userID).
		Pluck("game_id", &ids).Error
	if err != nil {
		logger.Error("Failed to list wishlisted game IDs in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return ids, nil
}
