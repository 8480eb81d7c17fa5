package walletControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/wallet"
	"gorm.io/gorm"
)

const walletResource = "wallet"

// GET /user/wallet
func GetWallet(ledger *wallet.Ledger, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var cached gin.H
		if cch.GetUserResource(c.Request.Context(), userID, walletResource, &cached) {
			c.JSON(http.StatusOK, cached)
			return
		}

		balance, err := ledger.Balance(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet balance"})
			return
		}

		resp := gin.H{"balance": balance}
		cch.SetUserResource(c.Request.Context(), userID, walletResource, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// GET /user/wallet/transactions
func GetWalletTransactions(ledger *wallet.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		txns, err := ledger.Transactions(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet transactions"})
			return
		}
		c.JSON(http.StatusOK, txns)
	}
}

type AdjustWalletRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	Amount        int    `json:"amount" binding:"required"` // positive credits, negative debits
	Reason        string `json:"reason" binding:"required"`
	ExpiresInDays int    `json:"expires_in_days"`
}

// POST /admin/wallet/adjust
func AdjustWallet(ledger *wallet.Ledger, cch *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdjustWalletRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var err error
		if req.Amount > 0 {
			err = ledger.Credit(c.Request.Context(), req.UserID, req.Amount, req.Reason, req.ExpiresInDays)
		} else {
			err = ledger.Debit(c.Request.Context(), req.UserID, -req.Amount, req.Reason)
		}
		switch {
		case errors.Is(err, wallet.ErrInsufficientFunds):
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient wallet balance"})
			return
		case errors.Is(err, wallet.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be non-zero"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust wallet"})
			return
		}

		cch.InvalidateUser(c.Request.Context(), req.UserID, walletResource)
		balance, err := ledger.Balance(c.Request.Context(), req.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet balance"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Wallet adjusted", "balance": balance})
	}
}

// GET /admin/wallet/settings
func GetWalletSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings models.WalletSettings
		if err := db.First(&settings).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, models.WalletSettings{MaxUsagePercent: 20, ConversionRate: 10})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet settings"})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

type WalletSettingsInput struct {
	MaxUsagePercent    *int     `json:"max_usage_percent"`
	MinCartValue       *float64 `json:"min_cart_value"`
	EligibleCategories *string  `json:"eligible_categories"`
	ConversionRate     *int     `json:"conversion_rate"`
}

// PUT /admin/wallet/settings
func UpdateWalletSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input WalletSettingsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var settings models.WalletSettings
		if err := db.FirstOrCreate(&settings, models.WalletSettings{ID: 1}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet settings"})
			return
		}

		updates := make(map[string]interface{})
		if input.MaxUsagePercent != nil {
			if *input.MaxUsagePercent < 0 || *input.MaxUsagePercent > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "max_usage_percent must be 0-100"})
				return
			}
			updates["max_usage_percent"] = *input.MaxUsagePercent
		}
		if input.MinCartValue != nil {
			updates["min_cart_value"] = *input.MinCartValue
		}
		if input.EligibleCategories != nil {
			updates["eligible_categories"] = *input.EligibleCategories
		}
		if input.ConversionRate != nil {
			if *input.ConversionRate <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "conversion_rate must be positive"})
				return
			}
			updates["conversion_rate"] = *input.ConversionRate
		}

		if len(updates) > 0 {
			if err := db.Model(&settings).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wallet settings"})
				return
			}
		}
		c.JSON(http.StatusOK, settings)
	}
}
