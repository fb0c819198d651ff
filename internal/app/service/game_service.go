package service

import (
	"errors"
	"time"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/pricing"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidRating = errors.New("rating score out of range")
)

const summaryMaxLen = 100

// ViewerContext identifies who is looking at the catalog. A zero value
// is an anonymous viewer: ownership and wishlist flags stay false.
type ViewerContext struct {
	UserID        uint
	Authenticated bool
}

// GameSummary is the catalog card projection of a game.
type GameSummary struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Summary     string                 `json:"summary"`
	CoverURL    string                 `json:"cover_url,omitempty"`
	ReleaseDate time.Time              `json:"release_date"`
	Genres      []string               `json:"genres"`
	Platforms   []string               `json:"platforms"`
	Pricing     pricing.EffectivePrice `json:"pricing"`
	Owned       bool                   `json:"owned"`
	Wishlisted  bool                   `json:"wishlisted"`
}

// GameDetail is the full detail-page projection of a game.
type GameDetail struct {
	GameSummary
	Description string   `json:"description"`
	Developers  []string `json:"developers"`
	Publishers  []string `json:"publishers"`
	Screenshots []string `json:"screenshots"`
	MeanRating  *float64 `json:"mean_rating"`
	RatingCount int      `json:"rating_count"`
	UserRating  *int     `json:"user_rating,omitempty"`
}

// ListGamesOptions control catalog filtering, ordering and pagination.
type ListGamesOptions struct {
	GenreID    *uint
	PlatformID *uint
	Search     string
	SortBy     repository.GameSort
	Ascending  bool
	Page       int
	PageSize   int
}

type GameService interface {
	ListGames(opts ListGamesOptions, viewer ViewerContext) ([]GameSummary, int, error)
	GetGameDetail(gameID uint, viewer ViewerContext) (*GameDetail, error)
	CreateGame(game *model.Game) error
	UpdateGame(game *model.Game) error
	DeleteGame(gameID uint) error
	RateGame(userID, gameID uint, score int, comment string) error
}

type gameService struct {
	gameRepo     repository.GameRepository
	ratingRepo   repository.RatingRepository
	libraryRepo  repository.LibraryRepository
	wishlistRepo repository.WishlistRepository
}

func NewGameService(
	gameRepo repository.GameRepository,
	ratingRepo repository.RatingRepository,
	libraryRepo repository.LibraryRepository,
	wishlistRepo repository.WishlistRepository,
) GameService {
	return &gameService{
		gameRepo:     gameRepo,
		ratingRepo:   ratingRepo,
		libraryRepo:  libraryRepo,
		wishlistRepo: wishlistRepo,
	}
}

func (s *gameService) ListGames(opts ListGamesOptions, viewer ViewerContext) ([]GameSummary, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}

	filter := repository.GameFilter{
		GenreID:    opts.GenreID,
		PlatformID: opts.PlatformID,
		Search:     opts.Search,
		SortBy:     opts.SortBy,
		Ascending:  opts.Ascending,
		Limit:      opts.PageSize,
		Offset:     (opts.Page - 1) * opts.PageSize,
	}

	games, err := s.gameRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list games", err, map[string]interface{}{
			"search": opts.Search,
		})
		return nil, 0, err
	}

	count, err := s.gameRepo.CountWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	totalPages := int((count + int64(opts.PageSize) - 1) / int64(opts.PageSize))

	owned, wishlisted, err := s.viewerSets(viewer)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]GameSummary, 0, len(games))
	for i := range games {
		summary, err := s.projectSummary(&games[i], owned, wishlisted)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, summary)
	}

	logger.Debug("Catalog page projected", map[string]interface{}{
		"count":       len(summaries),
		"total_pages": totalPages,
		"page":        opts.Page,
	})
	return summaries, totalPages, nil
}

func (s *gameService) GetGameDetail(gameID uint, viewer ViewerContext) (*GameDetail, error) {
	game, err := s.gameRepo.FindByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		logger.Error("Failed to fetch game", err, map[string]interface{}{
			"game_id": gameID,
		})
		return nil, err
	}

	owned, wishlisted, err := s.viewerSets(viewer)
	if err != nil {
		return nil, err
	}

	summary, err := s.projectSummary(game, owned, wishlisted)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{
		GameSummary: summary,
		Description: game.Description,
		Developers:  companyNames(game.Developers, game.ID, "developer"),
		Publishers:  companyNames(game.Publishers, game.ID, "publisher"),
		Screenshots: make([]string, 0, len(game.Screenshots)),
	}

	for _, shot := range game.Screenshots {
		if shot.URL == "" {
			logger.Warn("Skipping screenshot with empty URL", map[string]interface{}{
				"game_id":       game.ID,
				"screenshot_id": shot.ID,
			})
			continue
		}
		detail.Screenshots = append(detail.Screenshots, shot.URL)
	}

	detail.MeanRating, detail.RatingCount = meanRating(game.Ratings)

	if viewer.Authenticated {
		if rating, err := s.ratingRepo.FindByUserAndGame(viewer.UserID, gameID); err == nil {
			detail.UserRating = &rating.Score
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return detail, nil
}

func (s *gameService) CreateGame(game *model.Game) error {
	if _, err := pricing.Resolve(game.BasePrice, game.DiscountPercent); err != nil {
		return err
	}

	if err := s.gameRepo.Create(game); err != nil {
		return err
	}

	logger.Info("Game created", map[string]interface{}{
		"game_id": game.ID,
		"title":   game.Title,
	})
	return nil
}

func (s *gameService) UpdateGame(game *model.Game) error {
	if _, err := pricing.Resolve(game.BasePrice, game.DiscountPercent); err != nil {
		return err
	}

	if _, err := s.gameRepo.FindByID(game.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	return s.gameRepo.Update(game)
}

func (s *gameService) DeleteGame(gameID uint) error {
	if _, err := s.gameRepo.FindByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	logger.Info("Deleting game", map[string]interface{}{
		"game_id": gameID,
	})
	return s.gameRepo.Delete(gameID)
}

func (s *gameService) RateGame(userID, gameID uint, score int, comment string) error {
	if score < 0 || score > 5 {
		return ErrInvalidRating
	}

	if _, err := s.gameRepo.FindByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	existing, err := s.ratingRepo.FindByUserAndGame(userID, gameID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.ratingRepo.Create(&model.Rating{
			UserID:  userID,
			GameID:  gameID,
			Score:   score,
			Comment: comment,
		})
	}

	existing.Score = score
	existing.Comment = comment
	return s.ratingRepo.Update(existing)
}

// viewerSets loads the viewer's owned and wishlisted game ID sets.
// Anonymous viewers get empty sets.
func (s *gameService) viewerSets(viewer ViewerContext) (map[uint]bool, map[uint]bool, error) {
	if !viewer.Authenticated {
		return nil, nil, nil
	}

	ownedIDs, err := s.libraryRepo.OwnedGameIDs(viewer.UserID)
	if err != nil {
		return nil, nil, err
	}
	wishlistIDs, err := s.wishlistRepo.GameIDs(viewer.UserID)
	if err != nil {
		return nil, nil, err
	}

	owned := make(map[uint]bool, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = true
	}
	wishlisted := make(map[uint]bool, len(wishlistIDs))
	for _, id := range wishlistIDs {
		wishlisted[id] = true
	}
	return owned, wishlisted, nil
}

func (s *gameService) projectSummary(game *model.Game, owned, wishlisted map[uint]bool) (GameSummary, error) {
	price, err := pricing.Resolve(game.BasePrice, game.DiscountPercent)
	if err != nil {
		logger.Error("Failed to resolve game price", err, map[string]interface{}{
			"game_id": game.ID,
		})
		return GameSummary{}, err
	}

	summary := GameSummary{
		ID:          game.ID,
		Title:       game.Title,
		Summary:     truncateSummary(game.Description),
		CoverURL:    game.CoverURL,
		ReleaseDate: game.ReleaseDate,
		Genres:      make([]string, 0, len(game.Genres)),
		Platforms:   make([]string, 0, len(game.Platforms)),
		Pricing:     price,
		Owned:       owned[game.ID],
		Wishlisted:  wishlisted[game.ID],
	}

	for _, genre := range game.Genres {
		if genre.ID == 0 || genre.Name == "" {
			logger.Warn("Skipping unresolved genre on game", map[string]interface{}{
				"game_id": game.ID,
			})
			continue
		}
		summary.Genres = append(summary.Genres, genre.Name)
	}
	for _, platform := range game.Platforms {
		if platform.ID == 0 || platform.Name == "" {
			logger.Warn("Skipping unresolved platform on game", map[string]interface{}{
				"game_id": game.ID,
			})
			continue
		}
		summary.Platforms = append(summary.Platforms, platform.Name)
	}

	return summary, nil
}

func companyNames(companies []model.Company, gameID uint, role string) []string {
	names := make([]string, 0, len(companies))
	for _, company := range companies {
		if company.ID == 0 || company.Name == "" {
			logger.Warn("Skipping unresolved company on game", map[string]interface{}{
				"game_id": gameID,
				"role":    role,
			})
			continue
		}
		names = append(names, company.Name)
	}
	return names
}

// truncateSummary cuts a description down to the card length, appending
// an ellipsis when anything was dropped. Counted in runes so multi-byte
// text never splits mid-character.
func truncateSummary(description string) string {
	runes := []rune(description)
	if len(runes) <= summaryMaxLen {
		return description
	}
	return string(runes[:summaryMaxLen]) + "..."
}

// meanRating averages rating scores to one decimal place. A game with no
// ratings has no mean at all rather than a zero.
func meanRating(ratings []model.Rating) (*float64, int) {
	if len(ratings) == 0 {
		return nil, 0
	}

	sum := decimal.Zero
	for _, rating := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(rating.Score)))
	}
	mean, _ := sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(1).Float64()
	return &mean, len(ratings)
}
