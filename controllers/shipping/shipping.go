package shippingControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/shipping"
	"gorm.io/gorm"
)

func carrierError(c *gin.Context, err error) {
	var extErr *shipping.ExternalError
	if errors.As(err, &extErr) {
		// Bad gateway tells the seller this is the carrier, not us; the
		// order stays unshipped and the push can be retried.
		c.JSON(http.StatusBadGateway, gin.H{"error": extErr.Error(), "retryable": true})
		return
	}
	if errors.Is(err, shipping.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// POST /seller/shipping/push/:orderID
// Idempotent: pushing an already shipped order returns the existing
// shipment id.
func PushOrder(dispatcher *shipping.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		shipmentID, err := dispatcher.PushOrder(c.Request.Context(), uint(orderID))
		if err != nil {
			carrierError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"shipment_id": shipmentID})
	}
}

// GET /seller/shipping/track/:shipmentID
func TrackShipment(client *shipping.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := client.Track(c.Request.Context(), c.Param("shipmentID"))
		if err != nil {
			carrierError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", body)
	}
}

// GET /seller/shipping/couriers
func ListCouriers(client *shipping.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := client.Couriers(c.Request.Context())
		if err != nil {
			carrierError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", body)
	}
}

// GET /seller/shipping/settings
func GetSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		var settings models.ShiprocketSettings
		err := db.Where("seller_id = ?", sellerID).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, models.ShiprocketSettings{SellerID: sellerID, NotifyCustomer: true})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping settings"})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

type SettingsInput struct {
	AutoShip       *bool           `json:"auto_ship"`
	DefaultCourier *string         `json:"default_courier"`
	NotifyCustomer *bool           `json:"notify_customer"`
	ReturnAddress  *models.Address `json:"return_address"`
}

// PUT /seller/shipping/settings
func UpdateSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")

		var input SettingsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var settings models.ShiprocketSettings
		if err := db.Where(models.ShiprocketSettings{SellerID: sellerID}).
			FirstOrCreate(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shipping settings"})
			return
		}

		if input.AutoShip != nil {
			settings.AutoShip = *input.AutoShip
		}
		if input.DefaultCourier != nil {
			settings.DefaultCourier = *input.DefaultCourier
		}
		if input.NotifyCustomer != nil {
			settings.NotifyCustomer = *input.NotifyCustomer
		}
		if input.ReturnAddress != nil {
			settings.ReturnAddress = *input.ReturnAddress
		}

		if err := db.Save(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shipping settings"})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}
