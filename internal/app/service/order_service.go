package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/pricing"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCheckoutInvalid = errors.New("checkout validation failed")
	ErrInvalidStatus   = errors.New("invalid order status transition")
)

type OrderService interface {
	Checkout(userID uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
	locks     *UserLocks
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	db *gorm.DB,
	locks *UserLocks,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
		locks:     locks,
	}
}

// Checkout converts the user's cart into an order. Every line is
// re-validated against current catalog state inside one transaction:
// either all games are granted to the library at their current price, or
// nothing changes.
func (s *orderService) Checkout(userID uint) (*model.Order, error) {
	mu := s.locks.lock(userID)
	defer mu.Unlock()

	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot check out: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		total       = decimal.Zero
		orderItems  []model.OrderItem
		bundleItems []model.OrderBundleItem
		granted     = make(map[uint]bool)
	)

	grantGame := func(game *model.Game) (pricing.EffectivePrice, error) {
		if granted[game.ID] {
			logger.Warn("Checkout failed: game appears twice across cart lines", map[string]interface{}{
				"user_id": userID,
				"game_id": game.ID,
			})
			return pricing.EffectivePrice{}, ErrCheckoutInvalid
		}

		var count int64
		if err := tx.Model(&model.LibraryEntry{}).
			Where("user_id = ? AND game_id = ?", userID, game.ID).
			Count(&count).Error; err != nil {
			return pricing.EffectivePrice{}, err
		}
		if count > 0 {
			logger.Warn("Checkout failed: game already owned", map[string]interface{}{
				"user_id": userID,
				"game_id": game.ID,
			})
			return pricing.EffectivePrice{}, ErrAlreadyOwned
		}

		price, err := pricing.Resolve(game.BasePrice, game.DiscountPercent)
		if err != nil {
			return pricing.EffectivePrice{}, err
		}

		if err := tx.Create(&model.LibraryEntry{UserID: userID, GameID: game.ID}).Error; err != nil {
			return pricing.EffectivePrice{}, err
		}
		granted[game.ID] = true
		return price, nil
	}

	for _, cartItem := range cartItems {
		switch {
		case cartItem.GameID != nil:
			var game model.Game
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&game, *cartItem.GameID).Error; err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Game missing during checkout", map[string]interface{}{
						"user_id": userID,
						"game_id": *cartItem.GameID,
					})
					return nil, ErrCheckoutInvalid
				}
				logger.Error("Failed to fetch game during checkout", err, map[string]interface{}{
					"user_id": userID,
					"game_id": *cartItem.GameID,
				})
				return nil, err
			}

			price, err := grantGame(&game)
			if err != nil {
				tx.Rollback()
				return nil, err
			}

			orderItems = append(orderItems, model.OrderItem{
				GameID:        game.ID,
				UnitPrice:     price.CurrentPrice,
				OriginalPrice: price.OriginalPrice,
				TitleSnapshot: game.Title,
				Quantity:      cartItem.Quantity,
			})
			total = total.Add(decimal.NewFromFloat(price.CurrentPrice).
				Mul(decimal.NewFromInt(int64(cartItem.Quantity))))

		case cartItem.BundleID != nil:
			var bundle model.Bundle
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("Games").
				First(&bundle, *cartItem.BundleID).Error; err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Bundle missing during checkout", map[string]interface{}{
						"user_id":   userID,
						"bundle_id": *cartItem.BundleID,
					})
					return nil, ErrCheckoutInvalid
				}
				logger.Error("Failed to fetch bundle during checkout", err, map[string]interface{}{
					"user_id":   userID,
					"bundle_id": *cartItem.BundleID,
				})
				return nil, err
			}

			if len(bundle.Games) == 0 {
				tx.Rollback()
				logger.Warn("Bundle has no games during checkout", map[string]interface{}{
					"user_id":   userID,
					"bundle_id": bundle.ID,
				})
				return nil, ErrCheckoutInvalid
			}

			price, err := pricing.Resolve(bundle.BasePrice, bundle.DiscountPercent)
			if err != nil {
				tx.Rollback()
				return nil, err
			}

			for i := range bundle.Games {
				if _, err := grantGame(&bundle.Games[i]); err != nil {
					tx.Rollback()
					return nil, err
				}
			}

			bundleItems = append(bundleItems, model.OrderBundleItem{
				BundleID:      bundle.ID,
				UnitPrice:     price.CurrentPrice,
				OriginalPrice: price.OriginalPrice,
				TitleSnapshot: bundle.Title,
				Quantity:      cartItem.Quantity,
			})
			total = total.Add(decimal.NewFromFloat(price.CurrentPrice).
				Mul(decimal.NewFromInt(int64(cartItem.Quantity))))

		default:
			tx.Rollback()
			logger.Warn("Cart item references neither game nor bundle", map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": cartItem.ID,
			})
			return nil, ErrCheckoutInvalid
		}
	}

	totalAmount, _ := total.Round(2).Float64()

	order := &model.Order{
		OrderNumber: fmt.Sprintf("ORD-%s", uuid.New().String()),
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      model.OrderStatusCompleted,
		Items:       orderItems,
		BundleItems: bundleItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":      userID,
			"total_amount": totalAmount,
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Checkout completed successfully", map[string]interface{}{
		"user_id":       userID,
		"order_id":      order.ID,
		"order_number":  order.OrderNumber,
		"total_amount":  totalAmount,
		"games_granted": len(granted),
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Orders are only visible to the user who placed them.
	if order.UserID != userID {
		logger.Warn("Order access denied", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if !model.ValidTransition(order.Status, status) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     order.Status,
		"to":       status,
	})
	return nil
}
