package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

// GetProductByID returns a single approved product, served from the cache
// when possible.
// URL param: /products/:id
func GetProductByID(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if cch.GetProduct(c.Request.Context(), uint(id), &product) {
			c.JSON(http.StatusOK, product)
			return
		}

		if err := db.Preload("Variants").
			Where("approval = ?", models.ApprovalApproved).
			First(&product, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		cch.SetProduct(c.Request.Context(), product.ID, product)
		c.JSON(http.StatusOK, product)
	}
}
