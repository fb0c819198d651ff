package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressplay/pressplay-backend/internal/app/service"
	apperrors "github.com/pressplay/pressplay-backend/internal/errors"
	"github.com/pressplay/pressplay-backend/internal/middleware"
)

type LibraryController struct {
	libraryService service.LibraryService
}

func NewLibraryController(libraryService service.LibraryService) *LibraryController {
	return &LibraryController{
		libraryService: libraryService,
	}
}

// GetLibrary returns the user's owned games
// GET /api/v1/library
func (ctrl *LibraryController) GetLibrary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	entries, err := ctrl.libraryService.GetLibrary(userID)
	if err != nil {
		log.Error("Failed to fetch library", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch library")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"library": entries,
		"count":   len(entries),
	})
}

type GrantGameRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	GameID uint `json:"game_id" binding:"required"`
}

// GrantGame adds a game to a user's library without a purchase (admin)
// POST /api/v1/admin/library/grant
func (ctrl *LibraryController) GrantGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GrantGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid grant data")
		return
	}

	if err := ctrl.libraryService.Grant(req.UserID, req.GameID); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			apperrors.NotFound(c, apperrors.CatalogGameNotFound, "Game not found")
			return
		}
		log.Error("Failed to grant game", err, map[string]interface{}{
			"user_id": req.UserID,
			"game_id": req.GameID,
		})
		apperrors.InternalError(c, "Failed to grant game")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game granted successfully",
	})
}
