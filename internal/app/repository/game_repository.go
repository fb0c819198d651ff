package repository

import (
	"fmt"
	"time"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type GameSort string

const (
	GameSortReleaseDate GameSort = "release_date"
	GameSortPrice       GameSort = "price"
	GameSortTitle       GameSort = "title"
)

// effectivePriceExpr sorts by the price a viewer actually pays, not the
// list price.
const effectivePriceExpr = "games.base_price * (100 - COALESCE(games.discount_percent, 0)) / 100.0"

type GameFilter struct {
	GenreID    *uint
	PlatformID *uint
	Search     string
	SortBy     GameSort
	Ascending  bool
	Limit      int
	Offset     int
}

type GameRepository interface {
	Create(game *model.Game) error
	FindByID(id uint) (*model.Game, error)
	FindWithFilter(filter GameFilter) ([]model.Game, error)
	CountWithFilter(filter GameFilter) (int64, error)
	Update(game *model.Game) error
	Delete(id uint) error
	ClearExpiredDiscounts(now time.Time) (int64, error)
	BulkCreate(games []model.Game, batchSize int) error
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(game *model.Game) error {
	logger.Debug("Creating game in database", map[string]interface{}{
		"title": game.Title,
	})

	if err := r.db.Create(game).Error; err != nil {
		logger.Error("Failed to create game in database", err, map[string]interface{}{
			"title": game.Title,
		})
		return err
	}

	logger.Debug("Game created in database", map[string]interface{}{
		"game_id": game.ID,
		"title":   game.Title,
	})
	return nil
}

func (r *gameRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Game{}).
		Preload("Genres").
		Preload("Platforms").
		Preload("Developers").
		Preload("Publishers")
}

func (r *gameRepository) applyFilter(query *gorm.DB, filter GameFilter) *gorm.DB {
	if filter.GenreID != nil {
		query = query.
			Joins("JOIN game_genres ON game_genres.game_id = games.id").
			Where("game_genres.genre_id = ?", *filter.GenreID)
	}

	if filter.PlatformID != nil {
		query = query.
			Joins("JOIN game_platforms ON game_platforms.game_id = games.id").
			Where("game_platforms.platform_id = ?", *filter.PlatformID)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("games.title LIKE ? OR games.description LIKE ?", like, like)
	}

	return query
}

func (r *gameRepository) FindWithFilter(filter GameFilter) ([]model.Game, error) {
	logger.Debug("Finding games with filter", map[string]interface{}{
		"genre_id":    filter.GenreID,
		"platform_id": filter.PlatformID,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
		"ascending":   filter.Ascending,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.applyFilter(r.baseQuery(), filter)

	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	switch filter.SortBy {
	case GameSortPrice:
		query = query.Order(effectivePriceExpr + " " + direction)
	case GameSortTitle:
		query = query.Order("games.title " + direction)
	case GameSortReleaseDate:
		fallthrough
	default:
		query = query.Order("games.release_date " + direction)
	}
	query = query.Order("games.id ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var games []model.Game
	if err := query.Find(&games).Error; err != nil {
		logger.Error("Failed to find games with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Games found with filter", map[string]interface{}{
		"count": len(games),
	})
	return games, nil
}

func (r *gameRepository) CountWithFilter(filter GameFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.Model(&model.Game{}), filter)
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to count games with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return 0, err
	}
	return count, nil
}

func (r *gameRepository) FindByID(id uint) (*model.Game, error) {
	logger.Debug("Finding game by ID in database", map[string]interface{}{
		"game_id": id,
	})

	var game model.Game
	err := r.baseQuery().
		Preload("Screenshots", func(db *gorm.DB) *gorm.DB {
			return db.Order("screenshots.position ASC")
		}).
		Preload("Ratings").
		First(&game, id).Error
	if err != nil {
		return nil, err
	}

	return &game, nil
}

func (r *gameRepository) Update(game *model.Game) error {
	logger.Debug("Updating game in database", map[string]interface{}{
		"game_id": game.ID,
		"title":   game.Title,
	})

	if err := r.db.Save(game).Error; err != nil {
		logger.Error("Failed to update game in database", err, map[string]interface{}{
			"game_id": game.ID,
		})
		return err
	}
	return nil
}

func (r *gameRepository) Delete(id uint) error {
	logger.Debug("Deleting game from database", map[string]interface{}{
		"game_id": id,
	})

	if err := r.db.Delete(&model.Game{}, id).Error; err != nil {
		logger.Error("Failed to delete game from database", err, map[string]interface{}{
			"game_id": id,
		})
		return err
	}
	return nil
}

// ClearExpiredDiscounts removes discounts whose end date has passed and
// returns how many games were updated.
func (r *gameRepository) ClearExpiredDiscounts(now time.Time) (int64, error) {
	result := r.db.Model(&model.Game{}).
		Where("discount_ends_at IS NOT NULL AND discount_ends_at < ?", now).
		Updates(map[string]interface{}{
			"discount_percent": nil,
			"discount_ends_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired discounts", result.Error, nil)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *gameRepository) BulkCreate(games []model.Game, batchSize int) error {
	if err := r.db.CreateInBatches(games, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create games in database", err, map[string]interface{}{
			"count": len(games),
		})
		return err
	}
	return nil
}
