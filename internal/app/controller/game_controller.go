package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/pricing"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/internal/app/service"
	apperrors "github.com/pressplay/pressplay-backend/internal/errors"
	"github.com/pressplay/pressplay-backend/internal/middleware"
)

type GameController struct {
	gameService service.GameService
}

func NewGameController(gameService service.GameService) *GameController {
	return &GameController{
		gameService: gameService,
	}
}

type GameRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	BasePrice       float64    `json:"base_price" binding:"min=0"`
	DiscountPercent *int       `json:"discount_percent"`
	DiscountEndsAt  *time.Time `json:"discount_ends_at"`
	ReleaseDate     time.Time  `json:"release_date" binding:"required"`
	CoverURL        string     `json:"cover_url"`
	GenreIDs        []uint     `json:"genre_ids"`
	PlatformIDs     []uint     `json:"platform_ids"`
	DeveloperIDs    []uint     `json:"developer_ids"`
	PublisherIDs    []uint     `json:"publisher_ids"`
	Screenshots     []string   `json:"screenshots"`
}

type RateGameRequest struct {
	Score   *int   `json:"score" binding:"required"`
	Comment string `json:"comment"`
}

// ListGames returns a catalog page
// GET /api/v1/games
func (ctrl *GameController) ListGames(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ListGamesOptions{
		Search: c.Query("search"),
	}

	if genreID, err := strconv.ParseUint(c.Query("genre_id"), 10, 32); err == nil {
		id := uint(genreID)
		opts.GenreID = &id
	}
	if platformID, err := strconv.ParseUint(c.Query("platform_id"), 10, 32); err == nil {
		id := uint(platformID)
		opts.PlatformID = &id
	}

	switch c.DefaultQuery("sort", "release_date") {
	case "price":
		opts.SortBy = repository.GameSortPrice
	case "title", "name":
		opts.SortBy = repository.GameSortTitle
	default:
		opts.SortBy = repository.GameSortReleaseDate
	}
	opts.Ascending = c.DefaultQuery("order", "desc") == "asc"

	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	games, totalPages, err := ctrl.gameService.ListGames(opts, viewerFromContext(c))
	if err != nil {
		log.Error("Failed to list games", err, map[string]interface{}{
			"search": opts.Search,
		})
		apperrors.InternalError(c, "Failed to fetch games")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"games":       games,
		"count":       len(games),
		"page":        opts.Page,
		"total_pages": totalPages,
	})
}

// GetGame returns a game's detail page projection
// GET /api/v1/games/:id
func (ctrl *GameController) GetGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid game ID")
		return
	}

	detail, err := ctrl.gameService.GetGameDetail(uint(gameID), viewerFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			apperrors.NotFound(c, apperrors.CatalogGameNotFound, "Game not found")
			return
		}
		log.Error("Failed to fetch game detail", err, map[string]interface{}{
			"game_id": gameID,
		})
		apperrors.InternalError(c, "Failed to fetch game")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game": detail,
	})
}

// CreateGame adds a game to the catalog (admin)
// POST /api/v1/admin/games
func (ctrl *GameController) CreateGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create game request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid game data")
		return
	}

	game := gameFromRequest(&req)
	if err := ctrl.gameService.CreateGame(game); err != nil {
		if errors.Is(err, pricing.ErrInvariantViolation) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Price or discount out of range")
			return
		}
		log.Error("Failed to create game", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create game")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Game created successfully",
		"game_id": game.ID,
	})
}

// UpdateGame updates a game in the catalog (admin)
// PUT /api/v1/admin/games/:id
func (ctrl *GameController) UpdateGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid game ID")
		return
	}

	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid game data")
		return
	}

	game := gameFromRequest(&req)
	game.ID = uint(gameID)

	if err := ctrl.gameService.UpdateGame(game); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			apperrors.NotFound(c, apperrors.CatalogGameNotFound, "Game not found")
			return
		}
		if errors.Is(err, pricing.ErrInvariantViolation) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Price or discount out of range")
			return
		}
		log.Error("Failed to update game", err, map[string]interface{}{
			"game_id": gameID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update game")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game updated successfully",
	})
}

// DeleteGame removes a game from the catalog (admin)
// DELETE /api/v1/admin/games/:id
func (ctrl *GameController) DeleteGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid game ID")
		return
	}

	if err := ctrl.gameService.DeleteGame(uint(gameID)); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			apperrors.NotFound(c, apperrors.CatalogGameNotFound, "Game not found")
			return
		}
		log.Error("Failed to delete game", err, map[string]interface{}{
			"game_id": gameID,
		})
		apperrors.InternalError(c, "Failed to delete game")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game deleted successfully",
	})
}

// RateGame records or updates the user's rating for a game
// POST /api/v1/games/:id/rating
func (ctrl *GameController) RateGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid game ID")
		return
	}

	var req RateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid rating data")
		return
	}

	if err := ctrl.gameService.RateGame(userID, uint(gameID), *req.Score, req.Comment); err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			apperrors.NotFound(c, apperrors.CatalogGameNotFound, "Game not found")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.CatalogInvalidRating, "Rating score must be between 0 and 5")
		default:
			log.Error("Failed to rate game", err, map[string]interface{}{
				"user_id": userID,
				"game_id": gameID,
			})
			apperrors.InternalError(c, "Failed to save rating")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating saved successfully",
	})
}

// viewerFromContext builds the catalog viewer from optional auth state.
func viewerFromContext(c *gin.Context) service.ViewerContext {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		return service.ViewerContext{}
	}
	return service.ViewerContext{UserID: userID, Authenticated: true}
}

func gameFromRequest(req *GameRequest) *model.Game {
	game := &model.Game{
		Title:           req.Title,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DiscountPercent: req.DiscountPercent,
		DiscountEndsAt:  req.DiscountEndsAt,
		ReleaseDate:     req.ReleaseDate,
		CoverURL:        req.CoverURL,
	}

	for _, id := range req.GenreIDs {
		game.Genres = append(game.Genres, model.Genre{ID: id})
	}
	for _, id := range req.PlatformIDs {
		game.Platforms = append(game.Platforms, model.Platform{ID: id})
	}
	for _, id := range req.DeveloperIDs {
		game.Developers = append(game.Developers, model.Company{ID: id})
	}
	for _, id := range req.PublisherIDs {
		game.Publishers = append(game.Publishers, model.Company{ID: id})
	}
	for i, url := range req.Screenshots {
		game.Screenshots = append(game.Screenshots, model.Screenshot{URL: url, Position: i})
	}

	return game
}
