package service

import (
	"errors"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/pricing"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBundleNotFound = errors.New("bundle not found")
	ErrAlreadyOwned   = errors.New("game already owned")
)

// Cart is a user's cart with every line priced at current catalog rates.
type Cart struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// CartLine is a single cart entry together with its resolved price.
type CartLine struct {
	ID       uint                   `json:"id"`
	Game     *model.Game            `json:"game,omitempty"`
	Bundle   *model.Bundle          `json:"bundle,omitempty"`
	Quantity int                    `json:"quantity"`
	Pricing  pricing.EffectivePrice `json:"pricing"`
}

type CartService interface {
	GetCart(userID uint) (*Cart, error)
	AddGame(userID, gameID uint) (*Cart, error)
	AddBundle(userID, bundleID uint) (*Cart, error)
	RemoveGame(userID, gameID uint) (*Cart, error)
	RemoveBundle(userID, bundleID uint) (*Cart, error)
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	gameRepo    repository.GameRepository
	bundleRepo  repository.BundleRepository
	libraryRepo repository.LibraryRepository
	locks       *UserLocks
}

func NewCartService(
	cartRepo repository.CartRepository,
	gameRepo repository.GameRepository,
	bundleRepo repository.BundleRepository,
	libraryRepo repository.LibraryRepository,
	locks *UserLocks,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		gameRepo:    gameRepo,
		bundleRepo:  bundleRepo,
		libraryRepo: libraryRepo,
		locks:       locks,
	}
}

func (s *cartService) GetCart(userID uint) (*Cart, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return s.buildCart(items)
}

func (s *cartService) AddGame(userID, gameID uint) (*Cart, error) {
	mu := s.locks.lock(userID)
	defer mu.Unlock()

	logger.Info("Adding game to cart", map[string]interface{}{
		"user_id": userID,
		"game_id": gameID,
	})

	game, err := s.gameRepo.FindByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: game not found", map[string]interface{}{
				"user_id": userID,
				"game_id": gameID,
			})
			return nil, ErrGameNotFound
		}
		logger.Error("Failed to fetch game", err, map[string]interface{}{
			"game_id": gameID,
		})
		return nil, err
	}

	owned, err := s.libraryRepo.Exists(userID, game.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		logger.Warn("Cannot add to cart: game already owned", map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		return nil, ErrAlreadyOwned
	}

	existing, err := s.cartRepo.FindByUserAndGame(userID, gameID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id": userID,
			"game_id": gameID,
		})
		return nil, err
	}

	// Re-adding a game already in the cart is a no-op: the cart holds at
	// most one line per game and quantity never grows past one.
	if existing == nil {
		item := &model.CartItem{
			UserID:   userID,
			GameID:   &game.ID,
			Quantity: 1,
		}
		if err := s.cartRepo.Create(item); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID)
}

func (s *cartService) AddBundle(userID, bundleID uint) (*Cart, error) {
	mu := s.locks.lock(userID)
	defer mu.Unlock()

	logger.Info("Adding bundle to cart", map[string]interface{}{
		"user_id":   userID,
		"bundle_id": bundleID,
	})

	bundle, err := s.bundleRepo.FindByID(bundleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: bundle not found", map[string]interface{}{
				"user_id":   userID,
				"bundle_id": bundleID,
			})
			return nil, ErrBundleNotFound
		}
		logger.Error("Failed to fetch bundle", err, map[string]interface{}{
			"bundle_id": bundleID,
		})
		return nil, err
	}

	for _, game := range bundle.Games {
		owned, err := s.libraryRepo.Exists(userID, game.ID)
		if err != nil {
			return nil, err
		}
		if owned {
			logger.Warn("Cannot add to cart: bundle contains owned game", map[string]interface{}{
				"user_id":   userID,
				"bundle_id": bundleID,
				"game_id":   game.ID,
			})
			return nil, ErrAlreadyOwned
		}
	}

	existing, err := s.cartRepo.FindByUserAndBundle(userID, bundleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":   userID,
			"bundle_id": bundleID,
		})
		return nil, err
	}

	if existing == nil {
		item := &model.CartItem{
			UserID:   userID,
			BundleID: &bundle.ID,
			Quantity: 1,
		}
		if err := s.cartRepo.Create(item); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID)
}

func (s *cartService) RemoveGame(userID, gameID uint) (*Cart, error) {
	mu := s.locks.lock(userID)
	defer mu.Unlock()

	logger.Info("Removing game from cart", map[string]interface{}{
		"user_id": userID,
		"game_id": gameID,
	})

	// Removing a game that is not in the cart is a no-op, not an error.
	if err := s.cartRepo.DeleteByUserAndGame(userID, gameID); err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

func (s *cartService) RemoveBundle(userID, bundleID uint) (*Cart, error) {
	mu := s.locks.lock(userID)
	defer mu.Unlock()

	logger.Info("Removing bundle from cart", map[string]interface{}{
		"user_id":   userID,
		"bundle_id": bundleID,
	})

	if err := s.cartRepo.DeleteByUserAndBundle(userID, bundleID); err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

func (s *cartService) ClearCart(userID uint) error {
	mu := s.locks.lock(userID)
	defer mu.Unlock()

	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.DeleteByUserID(userID)
}

// buildCart resolves current pricing for every line and sums the total.
// Lines whose game or bundle no longer resolves are skipped rather than
// failing the whole cart.
func (s *cartService) buildCart(items []model.CartItem) (*Cart, error) {
	cart := &Cart{Items: make([]CartLine, 0, len(items))}
	total := decimal.Zero

	for _, item := range items {
		line := CartLine{ID: item.ID, Quantity: item.Quantity}

		switch {
		case item.GameID != nil && item.Game != nil:
			price, err := pricing.Resolve(item.Game.BasePrice, item.Game.DiscountPercent)
			if err != nil {
				return nil, err
			}
			line.Game = item.Game
			line.Pricing = price
		case item.BundleID != nil && item.Bundle != nil:
			price, err := pricing.Resolve(item.Bundle.BasePrice, item.Bundle.DiscountPercent)
			if err != nil {
				return nil, err
			}
			line.Bundle = item.Bundle
			line.Pricing = price
		default:
			logger.Warn("Skipping cart item with unresolved reference", map[string]interface{}{
				"cart_item_id": item.ID,
				"user_id":      item.UserID,
			})
			continue
		}

		lineTotal := decimal.NewFromFloat(line.Pricing.CurrentPrice).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		cart.Items = append(cart.Items, line)
	}

	cart.Total, _ = total.Round(2).Float64()
	return cart, nil
}
