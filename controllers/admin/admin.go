package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

// GET /admin/admins
func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Admin
		if err := db.Where("approved = ?", true).Find(&admins).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

// ListPendingAdmins returns all admins awaiting approval.
func ListPendingAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.Admin
		if err := db.Where("approved = ?", false).Find(&pending).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending admins"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func ApproveAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var admin models.Admin
		if err := db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}

		if err := db.Model(&admin).Update("approved", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve admin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Admin approved"})
	}
}

func RejectAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		if err := db.Where("email = ?", req.Email).Delete(&models.Admin{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject admin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Admin rejected"})
	}
}

// ListPendingSellers returns seller accounts awaiting approval. Unapproved
// sellers can log in but cannot list products.
func ListPendingSellers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.User
		err := db.Select("id", "email", "name", "phone", "created_at").
			Where("role = ? AND seller_approved = ?", models.RoleSeller, false).
			Find(&pending).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending sellers"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func ApproveSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		res := db.Model(&models.User{}).
			Where("id = ? AND role = ?", req.UserID, models.RoleSeller).
			Update("seller_approved", true)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve seller"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Seller approved"})
	}
}

// RejectSeller demotes the account back to buyer. The login keeps working;
// only the seller surface goes away.
func RejectSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		res := db.Model(&models.User{}).
			Where("id = ? AND role = ?", req.UserID, models.RoleSeller).
			Updates(map[string]interface{}{"role": models.RoleBuyer, "seller_approved": false})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject seller"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Seller rejected"})
	}
}
