package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

// ListPendingProducts returns all products awaiting moderation.
func ListPendingProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.Product
		if err := db.Preload("Variants").
			Where("approval = ?", models.ApprovalPending).
			Order("created_at ASC").
			Find(&pending).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending products"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func setApproval(db *gorm.DB, cch *cache.Store, c *gin.Context, status models.ApprovalStatus) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	res := db.Model(&models.Product{}).Where("id = ?", id).Update("approval", status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	cch.InvalidateProduct(c.Request.Context(), uint(id))
	c.JSON(http.StatusOK, gin.H{"message": "Product " + string(status)})
}

// POST /admin/products/:id/approve
func ApproveProduct(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		setApproval(db, cch, c, models.ApprovalApproved)
	}
}

// POST /admin/products/:id/reject
func RejectProduct(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		setApproval(db, cch, c, models.ApprovalRejected)
	}
}
