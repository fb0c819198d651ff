package repository

import (
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type LibraryRepository interface {
	Create(entry *model.LibraryEntry) error
	Exists(userID, gameID uint) (bool, error)
	FindByUserID(userID uint) ([]model.LibraryEntry, error)
	OwnedGameIDs(userID uint) ([]uint, error)
}

type libraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) Create(entry *model.LibraryEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create library entry in database", err, map[string]interface{}{
			"user_id": entry.UserID,
			"game_id": entry.GameID,
		})
		return err
	}
	return nil
}

func (r *libraryRepository) Exists(userID, gameID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.LibraryEntry{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check library entry in database", err, map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *libraryRepository) FindByUserID(userID uint) ([]model.LibraryEntry, error) {
	var entries []model.LibraryEntry
	err := r.db.Where("user_id = ?", userID).
		Preload("Game").
		Order("library_entries.acquired_at DESC").
		Find(&entries).Error
	if err != nil {
		logger.Error("Failed to find library entries by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return entries, nil
}

func (r *libraryRepository) OwnedGameIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.LibraryEntry{}).
		Where("user_id = ?", userID).
		Pluck("game_id", &ids).Error
	if err != nil {
		logger.Error("Failed to list owned game IDs in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return ids, nil
}
