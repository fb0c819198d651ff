package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/service"
	apperrors "github.com/pressplay/pressplay-backend/internal/errors"
	"github.com/pressplay/pressplay-backend/internal/middleware"
)

type BundleController struct {
	bundleService service.BundleService
}

func NewBundleController(bundleService service.BundleService) *BundleController {
	return &BundleController{
		bundleService: bundleService,
	}
}

type BundleRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	BasePrice       float64 `json:"base_price" binding:"min=0"`
	DiscountPercent *int    `json:"discount_percent"`
	GameIDs         []uint  `json:"game_ids" binding:"required,min=1"`
}

// ListBundles returns all bundles with resolved pricing
// GET /api/v1/bundles
func (ctrl *BundleController) ListBundles(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundles, err := ctrl.bundleService.ListBundles(viewerFromContext(c))
	if err != nil {
		log.Error("Failed to list bundles", err, nil)
		apperrors.InternalError(c, "Failed to fetch bundles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundles": bundles,
		"count":   len(bundles),
	})
}

// GetBundle returns one bundle with its games
// GET /api/v1/bundles/:id
func (ctrl *BundleController) GetBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid bundle ID")
		return
	}

	bundle, err := ctrl.bundleService.GetBundle(uint(bundleID), viewerFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrBundleNotFound) {
			apperrors.NotFound(c, apperrors.CatalogBundleNotFound, "Bundle not found")
			return
		}
		log.Error("Failed to fetch bundle", err, map[string]interface{}{
			"bundle_id": bundleID,
		})
		apperrors.InternalError(c, "Failed to fetch bundle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundle": bundle,
	})
}

// CreateBundle adds a bundle to the catalog (admin)
// POST /api/v1/admin/bundles
func (ctrl *BundleController) CreateBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create bundle request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid bundle data")
		return
	}

	bundle := bundleFromRequest(&req)
	if err := ctrl.bundleService.CreateBundle(bundle); err != nil {
		log.Error("Failed to create bundle", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create bundle")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Bundle created successfully",
		"bundle_id": bundle.ID,
	})
}

// UpdateBundle updates a bundle (admin)
// PUT /api/v1/admin/bundles/:id
func (ctrl *BundleController) UpdateBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid bundle ID")
		return
	}

	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid bundle data")
		return
	}

	bundle := bundleFromRequest(&req)
	bundle.ID = uint(bundleID)

	if err := ctrl.bundleService.UpdateBundle(bundle); err != nil {
		if errors.Is(err, service.ErrBundleNotFound) {
			apperrors.NotFound(c, apperrors.CatalogBundleNotFound, "Bundle not found")
			return
		}
		log.Error("Failed to update bundle", err, map[string]interface{}{
			"bundle_id": bundleID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update bundle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bundle updated successfully",
	})
}

// DeleteBundle removes a bundle (admin)
// DELETE /api/v1/admin/bundles/:id
func (ctrl *BundleController) DeleteBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid bundle ID")
		return
	}

	if err := ctrl.bundleService.DeleteBundle(uint(bundleID)); err != nil {
		if errors.Is(err, service.ErrBundleNotFound) {
			apperrors.NotFound(c, apperrors.CatalogBundleNotFound, "Bundle not found")
			return
		}
		log.Error("Failed to delete bundle", err, map[string]interface{}{
			"bundle_id": bundleID,
		})
		apperrors.InternalError(c, "Failed to delete bundle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bundle deleted successfully",
	})
}

func bundleFromRequest(req *BundleRequest) *model.Bundle {
	bundle := &model.Bundle{
		Title:           req.Title,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DiscountPercent: req.DiscountPercent,
	}
	for _, id := range req.GameIDs {
		bundle.Games = append(bundle.Games, model.Game{ID: id})
	}
	return bundle
}
