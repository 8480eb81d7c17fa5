package cartControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

const cartResource = "cart"

// POST /user/cart
// Adds a product to the cart or replaces the quantity of an existing row.
// One row per (user, product, variant).
func UpdateCartItem(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		err := db.Where("approval = ?", models.ApprovalApproved).
			First(&product, "id = ?", input.ProductID).Error
		if err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if err == gorm.ErrRecordNotFound {
				status = http.StatusBadRequest
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		price := product.SalePrice
		if input.VariantID != nil {
			var variant models.ProductVariant
			if err := db.Where("id = ? AND product_id = ?", *input.VariantID, product.ID).
				First(&variant).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Variant does not exist"})
				return
			}
			if variant.SalePrice > 0 {
				price = variant.SalePrice
			}
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).FirstOrCreate(&cart, models.Cart{UserID: userID}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User cart not found"})
			return
		}

		query := db.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID)
		if input.VariantID != nil {
			query = query.Where("variant_id = ?", *input.VariantID)
		} else {
			query = query.Where("variant_id IS NULL")
		}

		var item models.CartItem
		err = query.First(&item).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
				return
			}
			newItem := models.CartItem{
				CartID:       cart.CartID,
				ProductID:    product.ID,
				VariantID:    input.VariantID,
				ProductName:  product.Name,
				ProductImage: models.ParseImageColumn(product.Images).Primary(),
				Category:     product.Category,
				SalePrice:    price,
				RegularPrice: product.RegularPrice,
				Weight:       product.Weight,
				Quantity:     input.Quantity,
				AddedAt:      time.Now(),
			}
			if err := db.Create(&newItem).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
			cch.InvalidateUser(c.Request.Context(), userID, cartResource)
			c.JSON(http.StatusCreated, newItem)
			return
		}

		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}

		cch.InvalidateUser(c.Request.Context(), userID, cartResource)
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:item_id
func DeleteCartItem(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		itemID := c.Param("item_id")

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND id = ?", cart.CartID, itemID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		cch.InvalidateUser(c.Request.Context(), userID, cartResource)
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user cart"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}

		cch.InvalidateUser(c.Request.Context(), userID, cartResource)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /user/cart
func GetUserCart(db *gorm.DB, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var items []models.CartItem
		if cch.GetUserResource(c.Request.Context(), userID, cartResource, &items) {
			c.JSON(http.StatusOK, items)
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusOK, []models.CartItem{})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		cch.SetUserResource(c.Request.Context(), userID, cartResource, cart.Items)
		c.JSON(http.StatusOK, cart.Items)
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cart.Items)
	}
}
