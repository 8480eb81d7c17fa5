package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/order"
	"github.com/kaushlendrathe1710/lelekart-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Atomic cart-to-order checkout, idempotent on request_id
		orders.POST("/checkout", orderControllers.CheckoutHandler(d.Checkout, d.Cache))

		// Orders for the authenticated user
		orders.GET("/", orderControllers.GetUserOrdersHandler(d.DB))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(d.DB))
	}

	// Admin order management (API key)
	orderAdmin := r.Group("/admin/orders")
	orderAdmin.Use(middleware.ValidateAPIKey)
	{
		orderAdmin.GET("/", orderControllers.GetAllOrdersHandler(d.DB))
		orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.DB))
		orderAdmin.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(d.DB))
		orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(d.DB))
	}
}
