package repository

import (
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	UpdateStatus(orderID uint, status model.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Game").
		Preload("BundleItems").
		Preload("BundleItems.Bundle").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Game").
		Preload("BundleItems").
		Preload("BundleItems.Bundle").
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(orderID uint, status model.OrderStatus) error {
	err := r.db.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
	if err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return err
	}
	return nil
}
