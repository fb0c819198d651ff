package service

import (
	"errors"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type LibraryService interface {
	GetLibrary(userID uint) ([]model.LibraryEntry, error)
	IsOwned(userID, gameID uint) (bool, error)
	Grant(userID, gameID uint) error
}

type libraryService struct {
	libraryRepo repository.LibraryRepository
	gameRepo    repository.GameRepository
}

func NewLibraryService(
	libraryRepo repository.LibraryRepository,
	gameRepo repository.GameRepository,
) LibraryService {
	return &libraryService{libraryRepo: libraryRepo, gameRepo: gameRepo}
}

func (s *libraryService) GetLibrary(userID uint) ([]model.LibraryEntry, error) {
	logger.Debug("Fetching user library", map[string]interface{}{
		"user_id": userID,
	})

	entries, err := s.libraryRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *libraryService) IsOwned(userID, gameID uint) (bool, error) {
	return s.libraryRepo.Exists(userID, gameID)
}

// Grant adds a game to a user's library outside of checkout, for promo
// keys and admin grants. Granting an owned game is a no-op.
func (s *libraryService) Grant(userID, gameID uint) error {
	if _, err := s.gameRepo.FindByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	owned, err := s.libraryRepo.Exists(userID, gameID)
	if err != nil {
		return err
	}
	if owned {
		logger.Debug("Grant skipped: game already owned", map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		return nil
	}

	if err := s.libraryRepo.Create(&model.LibraryEntry{UserID: userID, GameID: gameID}); err != nil {
		return err
	}

	logger.Info("Game granted to library", map[string]interface{}{
		"user_id": userID,
		"game_id": gameID,
	})
	return nil
}
