package service

import (
	"errors"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/pricing"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

// BundleView is a bundle together with its resolved price.
type BundleView struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Pricing     pricing.EffectivePrice `json:"pricing"`
	Games       []GameSummary          `json:"games"`
}

type BundleService interface {
	ListBundles(viewer ViewerContext) ([]BundleView, error)
	GetBundle(bundleID uint, viewer ViewerContext) (*BundleView, error)
	CreateBundle(bundle *model.Bundle) error
	UpdateBundle(bundle *model.Bundle) error
	DeleteBundle(bundleID uint) error
}

type bundleService struct {
	bundleRepo   repository.BundleRepository
	libraryRepo  repository.LibraryRepository
	wishlistRepo repository.WishlistRepository
}

func NewBundleService(
	bundleRepo repository.BundleRepository,
	libraryRepo repository.LibraryRepository,
	wishlistRepo repository.WishlistRepository,
) BundleService {
	return &bundleService{
		bundleRepo:   bundleRepo,
		libraryRepo:  libraryRepo,
		wishlistRepo: wishlistRepo,
	}
}

func (s *bundleService) ListBundles(viewer ViewerContext) ([]BundleView, error) {
	bundles, err := s.bundleRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list bundles", err, nil)
		return nil, err
	}

	owned, wishlisted, err := s.viewerSets(viewer)
	if err != nil {
		return nil, err
	}

	views := make([]BundleView, 0, len(bundles))
	for i := range bundles {
		view, err := projectBundle(&bundles[i], owned, wishlisted)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *bundleService) GetBundle(bundleID uint, viewer ViewerContext) (*BundleView, error) {
	bundle, err := s.bundleRepo.FindByID(bundleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleNotFound
		}
		logger.Error("Failed to fetch bundle", err, map[string]interface{}{
			"bundle_id": bundleID,
		})
		return nil, err
	}

	owned, wishlisted, err := s.viewerSets(viewer)
	if err != nil {
		return nil, err
	}

	return projectBundle(bundle, owned, wishlisted)
}

func (s *bundleService) CreateBundle(bundle *model.Bundle) error {
	if _, err := pricing.Resolve(bundle.BasePrice, bundle.DiscountPercent); err != nil {
		return err
	}

	if err := s.bundleRepo.Create(bundle); err != nil {
		return err
	}

	logger.Info("Bundle created", map[string]interface{}{
		"bundle_id": bundle.ID,
		"title":     bundle.Title,
	})
	return nil
}

func (s *bundleService) UpdateBundle(bundle *model.Bundle) error {
	if _, err := pricing.Resolve(bundle.BasePrice, bundle.DiscountPercent); err != nil {
		return err
	}

	if _, err := s.bundleRepo.FindByID(bundle.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBundleNotFound
		}
		return err
	}

	return s.bundleRepo.Update(bundle)
}

func (s *bundleService) DeleteBundle(bundleID uint) error {
	if _, err := s.bundleRepo.FindByID(bundleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBundleNotFound
		}
		return err
	}

	logger.Info("Deleting bundle", map[string]interface{}{
		"bundle_id": bundleID,
	})
	return s.bundleRepo.Delete(bundleID)
}

func (s *bundleService) viewerSets(viewer ViewerContext) (map[uint]bool, map[uint]bool, error) {
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

func projectBundle(bundle *model.Bundle, owned, wishlisted map[uint]bool) (*BundleView, error) {
	price, err := pricing.Resolve(bundle.BasePrice, bundle.DiscountPercent)
	if err != nil {
		logger.Error("Failed to resolve bundle price", err, map[string]interface{}{
			"bundle_id": bundle.ID,
		})
		return nil, err
	}

	view := &BundleView{
		ID:          bundle.ID,
		Title:       bundle.Title,
		Description: bundle.Description,
		Pricing:     price,
		Games:       make([]GameSummary, 0, len(bundle.Games)),
	}

	for i := range bundle.Games {
		game := &bundle.Games[i]
		gamePrice, err := pricing.Resolve(game.BasePrice, game.DiscountPercent)
		if err != nil {
			return nil, err
		}
		view.Games = append(view.Games, GameSummary{
			ID:          game.ID,
			Title:       game.Title,
			Summary:     truncateSummary(game.Description),
			CoverURL:    game.CoverURL,
			ReleaseDate: game.ReleaseDate,
			Genres:      make([]string, 0),
			Platforms:   make([]string, 0),
			Pricing:     gamePrice,
			Owned:       owned[game.ID],
			Wishlisted:  wishlisted[game.ID],
		})
	}

	return view, nil
}
