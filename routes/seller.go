package routes

import (
	"github.com/gin-gonic/gin"
	productControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/product"
	sellerControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/seller"
	shippingControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/shipping"
	"github.com/kaushlendrathe1710/lelekart-api/middleware"
)

// SetupSellerRoutes registers all "/seller/*" endpoints. Requires JWT
// middleware plus the seller role.
func SetupSellerRoutes(r *gin.Engine, d Deps) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken, middleware.RequireRole("seller"))
	{
		// Product management (new and edited products re-enter moderation)
		products := sellerGroup.Group("/products")
		{
			products.POST("", productControllers.CreateProduct(d.DB))
			products.GET("", productControllers.GetSellerProducts(d.DB))
			products.PUT("/:id", productControllers.UpdateProduct(d.DB, d.Cache))
			products.DELETE("/:id", productControllers.DeleteProduct(d.DB, d.Cache))
			products.POST("/:id/restock", productControllers.RestockProduct(d.DB, d.Cache))
			products.POST("/import-excel", productControllers.ImportProductsFromExcel(d.DB))
			products.GET("/export-excel", productControllers.ExportProductsToExcel(d.DB))
		}

		// Orders containing this seller's products
		sellerGroup.GET("/orders", sellerControllers.GetSellerOrders(d.DB))

		// Shipping settings and dispatch
		shippingGroup := sellerGroup.Group("/shipping")
		{
			shippingGroup.GET("/settings", shippingControllers.GetSettings(d.DB))
			shippingGroup.PUT("/settings", shippingControllers.UpdateSettings(d.DB))
			shippingGroup.POST("/push/:orderID", shippingControllers.PushOrder(d.Dispatcher))
			shippingGroup.GET("/track/:shipmentID", shippingControllers.TrackShipment(d.Shiprocket))
			shippingGroup.GET("/couriers", shippingControllers.ListCouriers(d.Shiprocket))
		}

		// Analytics
		analytics := sellerGroup.Group("/analytics")
		{
			analytics.GET("/summary", sellerControllers.GetOrderSummary(d.DB))
			analytics.GET("/forecast", sellerControllers.GetForecast())
			analytics.GET("/orders-export", sellerControllers.ExportOrdersToExcel(d.DB))
		}
	}
}
