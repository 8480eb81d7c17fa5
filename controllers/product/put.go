package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	SalePrice    *float64 `json:"sale_price"`
	RegularPrice *float64 `json:"regular_price"`
	Category     *string  `json:"category"`
	Weight       *float64 `json:"weight"`
	Images       *string  `json:"images"`
}

// PUT /seller/products/:id
// Edits send the product back to pending approval. Stock is NOT editable
// here; restocking has its own endpoint so it can stay a conditional update.
func UpdateProduct(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Where("id = ? AND seller_id = ?", id, sellerID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := map[string]interface{}{"approval": models.ApprovalPending}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.SalePrice != nil {
			if *input.SalePrice <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "sale_price must be positive"})
				return
			}
			updates["sale_price"] = *input.SalePrice
		}
		if input.RegularPrice != nil {
			updates["regular_price"] = *input.RegularPrice
		}
		if input.Category != nil {
			updates["category"] = *input.Category
		}
		if input.Weight != nil {
			updates["weight"] = *input.Weight
		}
		if input.Images != nil {
			updates["images"] = models.ResolveImages(*input.Images).JSON()
		}

		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		cch.InvalidateProduct(c.Request.Context(), product.ID)
		c.JSON(http.StatusOK, product)
	}
}

type RestockInput struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// POST /seller/products/:id/restock
// Stock only ever moves through conditional updates; restock is a plain
// increment so it can never race checkout decrements into a lost update.
func RestockProduct(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input RestockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		res := db.Model(&models.Product{}).
			Where("id = ? AND seller_id = ?", id, sellerID).
			UpdateColumn("stock", gorm.Expr("stock + ?", input.Quantity))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restock product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		cch.InvalidateProduct(c.Request.Context(), uint(id))
		c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
	}
}
