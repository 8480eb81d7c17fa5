package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	SalePrice    float64 `json:"sale_price" binding:"required,gt=0"`
	RegularPrice float64 `json:"regular_price"`
	Category     string  `json:"category" binding:"required"`
	Stock        int     `json:"stock" binding:"min=0"`
	Weight       float64 `json:"weight"`
	// Images accepts legacy shapes: a bare URL, a JSON array, or a comma
	// list. It is resolved once here, never at render time.
	Images   string               `json:"images"`
	Variants []CreateVariantInput `json:"variants"`
}

type CreateVariantInput struct {
	SKU       string  `json:"sku" binding:"required"`
	Name      string  `json:"name"`
	SalePrice float64 `json:"sale_price"`
	Stock     int     `json:"stock" binding:"min=0"`
}

// POST /seller/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var seller models.User
		if err := db.Select("seller_approved").First(&seller, "id = ?", sellerID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load seller"})
			return
		}
		if !seller.SellerApproved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Seller account pending approval"})
			return
		}

		images := models.ResolveImages(input.Images)
		product := models.Product{
			SellerID:     sellerID,
			Name:         input.Name,
			Description:  input.Description,
			SalePrice:    input.SalePrice,
			RegularPrice: input.RegularPrice,
			Category:     input.Category,
			Stock:        input.Stock,
			Weight:       input.Weight,
			Images:       images.JSON(),
			Approval:     models.ApprovalPending,
		}
		for _, v := range input.Variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				SKU:       v.SKU,
				Name:      v.Name,
				SalePrice: v.SalePrice,
				Stock:     v.Stock,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		resp := gin.H{"product": product}
		if images.Kind == models.ImageMalformed {
			resp["warning"] = "image value could not be parsed and was stored as-is"
		}
		c.JSON(http.StatusCreated, resp)
	}
}
