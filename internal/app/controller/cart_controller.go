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

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddGameToCartRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}

type AddBundleToCartRequest struct {
	BundleID uint `json:"bundle_id" binding:"required"`
}

// GetCart returns the user's cart with resolved pricing
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
	})
}

// AddGame adds a game to the cart
// POST /api/v1/cart/games
func (ctrl *CartController) AddGame(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	var req AddGameToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.AddGame(userID, req.GameID)
	if err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
	})
}

// AddBundle adds a bundle to the cart
// POST /api/v1/cart/bundles
func (ctrl *CartController) AddBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	var req AddBundleToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add bundle request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.AddBundle(userID, req.BundleID)
	if err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
	})
}

// RemoveGame removes a game from the cart
// DELETE /api/v1/cart/games/:game_id
func (ctrl *CartController) RemoveGame(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	gameID, err := strconv.ParseUint(c.Param("game_id"), 10, 32)
	if err != nil {
		apperrors.RespondWithError(c, http.StatusBadRequest, apperrors.ValidationInvalidID, "Invalid game ID")
		return
	}

	cart, err := ctrl.cartService.RemoveGame(userID, uint(gameID))
	if err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
	})
}

// RemoveBundle removes a bundle from the cart
// DELETE /api/v1/cart/bundles/:bundle_id
func (ctrl *CartController) RemoveBundle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	bundleID, err := strconv.ParseUint(c.Param("bundle_id"), 10, 32)
	if err != nil {
		apperrors.RespondWithError(c, http.StatusBadRequest, apperrors.ValidationInvalidID, "Invalid bundle ID")
		return
	}

	cart, err := ctrl.cartService.RemoveBundle(userID, uint(bundleID))
	if err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
	})
}

// ClearCart empties the user's cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, userID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrGameNotFound):
		apperrors.RespondWithError(c, http.StatusNotFound, apperrors.CatalogGameNotFound, "Game not found")
	case errors.Is(err, service.ErrBundleNotFound):
		apperrors.RespondWithError(c, http.StatusNotFound, apperrors.CatalogBundleNotFound, "Bundle not found")
	case errors.Is(err, service.ErrAlreadyOwned):
		apperrors.RespondWithError(c, http.StatusConflict, apperrors.CommerceAlreadyOwned, "Game is already in your library")
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Cart operation failed")
	}
}
