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

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Checkout converts the user's cart into an order
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	order, err := ctrl.orderService.Checkout(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CommerceCheckoutInvalid, "Cart is empty")
		case errors.Is(err, service.ErrCheckoutInvalid):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.CommerceCheckoutInvalid, "Cart contents are no longer valid. Please review your cart")
		case errors.Is(err, service.ErrAlreadyOwned):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.CommerceAlreadyOwned, "A game in the cart is already in your library")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Checkout failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Checkout completed successfully",
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
		"order":        order,
	})
}

// GetOrders returns the user's order history
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.CommerceOrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		apperrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus moves an order through its status machine (admin)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid status data")
		return
	}

	err = ctrl.orderService.UpdateOrderStatus(uint(orderID), model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.CommerceOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidStatus):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.CommerceInvalidStatus, "Order cannot move to that status")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
				"status":   req.Status,
			})
			apperrors.InternalError(c, "Failed to update order status")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
	})
}
