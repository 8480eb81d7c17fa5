package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/checkout"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/wallet"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	// RequestID is the client idempotency key; replaying it returns the
	// original order.
	RequestID     string         `json:"request_id"`
	Address       models.Address `json:"address" binding:"required"`
	RedeemCoins   int            `json:"redeem_coins"`
	PaymentMethod string         `json:"payment_method"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch models.PaymentStatus(status) {
	case models.PaymentStatusPending, models.PaymentStatusPaid,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
		return models.PaymentStatus(status), nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// checkoutError maps assembler errors onto HTTP responses without losing the
// detail the client needs to decide whether to retry.
func checkoutError(c *gin.Context, err error) {
	var stockErr *checkout.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient stock",
			"shortages": stockErr.Shortages,
		})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient wallet balance"})
	case errors.Is(err, checkout.ErrConflict), errors.Is(err, wallet.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent modification, please retry checkout"})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, checkout.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "shipping address is incomplete"})
	case errors.Is(err, checkout.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout request"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// POST /user/checkout
func CheckoutHandler(svc *checkout.Service, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := svc.Checkout(c.Request.Context(), userID, req.RequestID, req.Address, req.RedeemCoins, req.PaymentMethod)
		if err != nil {
			checkoutError(c, err)
			return
		}

		cch.InvalidateUser(c.Request.Context(), userID, "cart", "wallet", "orders")
		c.JSON(http.StatusCreated, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID, accepts a numeric id or an order_ref.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("Items").
			Where("id = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /seller/orders/:orderID/status
// Status moves only along the legal transition map; anything else is a 409.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus := models.OrderStatus(req.Status)

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !models.CanTransition(order.Status, newStatus) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "illegal status transition from " + string(order.Status) + " to " + string(newStatus),
			})
			return
		}

		// Conditional on the old status so two racing updates cannot both
		// apply.
		res := db.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			Update("status", newStatus)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "order changed concurrently, re-fetch and retry"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// PUT /seller/orders/:orderID/payment
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("payment_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Where("id = ?", orderID).Delete(&models.Order{}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
