package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

// GetProducts lists approved products, optionally filtered by category, with
// offset pagination.
// Query params: category, limit (default 50), offset
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		q := db.Preload("Variants").
			Where("approval = ?", models.ApprovalApproved).
			Order("created_at DESC").
			Limit(limit).Offset(offset)
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetSellerProducts lists the calling seller's own products in every
// approval state.
func GetSellerProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		var products []models.Product
		if err := db.Preload("Variants").
			Where("seller_id = ?", sellerID).
			Order("created_at DESC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
