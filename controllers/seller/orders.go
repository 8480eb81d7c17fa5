package sellerControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

// GET /seller/orders?page=1&limit=20
// Orders containing at least one of the seller's products.
func GetSellerOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		sellerOrderIDs := db.Model(&models.OrderItem{}).
			Select("order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ?", sellerID)

		var orders []models.Order
		err := db.Preload("Items").
			Where("id IN (?)", sellerOrderIDs).
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"page": page, "limit": limit, "orders": orders})
	}
}
