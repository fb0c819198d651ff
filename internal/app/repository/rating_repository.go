package repository

import (
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(rating *model.Rating) error
	Update(rating *model.Rating) error
	FindByUserAndGame(userID, gameID uint) (*model.Rating, error)
	FindByGameID(gameID uint) ([]model.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(rating *model.Rating) error {
	if err := r.db.Create(rating).Error; err != nil {
		logger.Error("Failed to create rating in database", err, map[string]interface{}{
			"user_id": rating.UserID,
			"game_id": rating.GameID,
		})
		return err
	}
	return nil
}

func (r *ratingRepository) Update(rating *model.Rating) error {
	if err := r.db.Save(rating).Error; err != nil {
		logger.Error("Failed to update rating in database", err, map[string]interface{}{
			"rating_id": rating.ID,
		})
		return err
	}
	return nil
}

func (r *ratingRepository) FindByUserAndGame(userID, gameID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByGameID(gameID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Where("game_id = ?", gameID).Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to find ratings by game ID in database", err, map[string]interface{}{
			"game_id": gameID,
		})
		return nil, err
	}
	return ratings, nil
}
