package service

import (
	"errors"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type WishlistService interface {
	GetWishlist(userID uint) ([]model.WishlistItem, error)
	Toggle(userID, gameID uint) (bool, error)
	IsWishlisted(userID, gameID uint) (bool, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	gameRepo     repository.GameRepository
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	gameRepo repository.GameRepository,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		gameRepo:     gameRepo,
	}
}

func (s *wishlistService) GetWishlist(userID uint) ([]model.WishlistItem, error) {
	logger.Debug("Fetching user wishlist", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Toggle flips a game's wishlist membership and reports the new state:
// true when the game is now wishlisted, false when it was removed.
func (s *wishlistService) Toggle(userID, gameID uint) (bool, error) {
	if _, err := s.gameRepo.FindByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot toggle wishlist: game not found", map[string]interface{}{
				"user_id": userID,
				"game_id": gameID,
			})
			return false, ErrGameNotFound
		}
		return false, err
	}

	_, err := s.wishlistRepo.FindByUserAndGame(userID, gameID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		if err := s.wishlistRepo.Create(&model.WishlistItem{UserID: userID, GameID: gameID}); err != nil {
			return false, err
		}
		logger.Info("Game added to wishlist", map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		return true, nil
	}

	if err := s.wishlistRepo.Delete(userID, gameID); err != nil {
		return false, err
	}
	logger.Info("Game removed from wishlist", map[string]interface{}{
		"user_id": userID,
		"game_id": gameID,
	})
	return false, nil
}

func (s *wishlistService) IsWishlisted(userID, gameID uint) (bool, error) {
	_, err := s.wishlistRepo.FindByUserAndGame(userID, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
