package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

// DELETE /seller/products/:id
func DeleteProduct(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		res := db.Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.Product{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		cch.InvalidateProduct(c.Request.Context(), uint(id))
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
