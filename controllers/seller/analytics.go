package sellerControllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// OrderSummary aggregates a seller-facing sales window.
type OrderSummary struct {
	Orders    int64   `json:"orders"`
	ItemsSold int64   `json:"items_sold"`
	Revenue   float64 `json:"revenue"`
}

// GET /seller/analytics/summary?days=30
func GetOrderSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 30
		if d, err := strconv.Atoi(c.DefaultQuery("days", "30")); err == nil && d > 0 && d <= 365 {
			days = d
		}
		since := time.Now().AddDate(0, 0, -days)

		sellerID := c.GetString("user_id")

		// Revenue is attributed per line item so multi-seller orders only
		// count this seller's share.
		var summary OrderSummary
		err := db.Model(&models.Order{}).
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ? AND orders.created_at >= ? AND orders.status <> ?", sellerID, since, models.OrderStatusCancelled).
			Select("COUNT(DISTINCT orders.id) as orders, COALESCE(SUM(order_items.quantity), 0) as items_sold, COALESCE(SUM(order_items.unit_price * order_items.quantity), 0) as revenue").
			Scan(&summary).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// GET /seller/analytics/forecast?product_id=N
// Proxies the external demand-forecast service; the response JSON is relayed
// as-is, this service holds no forecasting logic.
func GetForecast() gin.HandlerFunc {
	client := resty.New().SetTimeout(10 * time.Second)
	return func(c *gin.Context) {
		baseURL := os.Getenv("FORECAST_API_URL")
		if baseURL == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "forecast service not configured"})
			return
		}

		resp, err := client.R().
			SetContext(c.Request.Context()).
			SetQueryParam("product_id", c.Query("product_id")).
			Get(baseURL + "/forecast")
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "forecast service unreachable", "retryable": true})
			return
		}
		if resp.IsError() {
			c.JSON(http.StatusBadGateway, gin.H{"error": "forecast service error", "retryable": true})
			return
		}
		c.Data(http.StatusOK, "application/json", resp.Body())
	}
}

// GET /seller/analytics/orders-export
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")

		var orders []models.Order
		err := db.Preload("Items").
			Where("id IN (?)", db.Model(&models.OrderItem{}).
				Select("order_items.order_id").
				Joins("JOIN products ON products.id = order_items.product_id").
				Where("products.seller_id = ?", sellerID)).
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range []string{
			"OrderRef", "UserID", "Status", "PaymentStatus", "Subtotal",
			"Shipping", "CoinsRedeemed", "Total", "Items", "ShipmentID", "CreatedAt",
		} {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderRef)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.ShippingCost)
			row.AddCell().SetValue(o.CoinsRedeemed)
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(len(o.Items))
			row.AddCell().SetValue(o.ShiprocketShipmentID)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
