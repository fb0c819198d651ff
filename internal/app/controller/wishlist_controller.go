package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pressplay/pressplay-backend/internal/app/service"
	apperrors "github.com/pressplay/pressplay-backend/internal/errors"
	"github.com/pressplay/pressplay-backend/internal/middleware"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

// GetWishlist returns the user's wishlist
// GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	items, err := ctrl.wishlistService.GetWishlist(userID)
	if err != nil {
		log.Error("Failed to fetch wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wishlist": items,
		"count":    len(items),
	})
}

// Toggle flips a game's wishlist membership
// POST /api/v1/wishlist/:game_id/toggle
func (ctrl *WishlistController) Toggle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	gameID, err := strconv.ParseUint(c.Param("game_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid game ID")
		return
	}

	inWishlist, err := ctrl.wishlistService.Toggle(userID, uint(gameID))
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			apperrors.NotFound(c, apperrors.CatalogGameNotFound, "Game not found")
			return
		}
		log.Error("Failed to toggle wishlist", err, map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		apperrors.InternalError(c, "Failed to update wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"in_wishlist": inWishlist,
	})
}

// CheckGame reports whether a game is on the user's wishlist
// GET /api/v1/wishlist/:game_id
func (ctrl *WishlistController) CheckGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	gameID, err := strconv.ParseUint(c.Param("game_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid game ID")
		return
	}

	inWishlist, err := ctrl.wishlistService.IsWishlisted(userID, uint(gameID))
	if err != nil {
		log.Error("Failed to check wishlist membership", err, map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		apperrors.InternalError(c, "Failed to check wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"in_wishlist": inWishlist,
	})
}
