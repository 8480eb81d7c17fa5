package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/kaushlendrathe1710/lelekart-api/controllers/admin"
	cartControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/cart"
	productControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/product"
	userControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/user"
	walletControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/wallet"
	"github.com/kaushlendrathe1710/lelekart-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// Admin & user management
		adminGroup.GET("/admins", adminController.GetAllAdmins(d.DB))
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))

		// Admin approval workflow
		adminMgmt := adminGroup.Group("/admin-management")
		{
			adminMgmt.GET("/pending", adminController.ListPendingAdmins(d.DB))
			adminMgmt.POST("/approve", adminController.ApproveAdmin(d.DB))
			adminMgmt.POST("/reject", adminController.RejectAdmin(d.DB))
		}

		// Seller account approval workflow
		sellerMgmt := adminGroup.Group("/seller-management")
		{
			sellerMgmt.GET("/pending", adminController.ListPendingSellers(d.DB))
			sellerMgmt.POST("/approve", adminController.ApproveSeller(d.DB))
			sellerMgmt.POST("/reject", adminController.RejectSeller(d.DB))
		}

		// Product moderation
		moderation := adminGroup.Group("/products")
		{
			moderation.GET("/pending", productControllers.ListPendingProducts(d.DB))
			moderation.POST("/:id/approve", productControllers.ApproveProduct(d.DB, d.Cache))
			moderation.POST("/:id/reject", productControllers.RejectProduct(d.DB, d.Cache))
		}

		// Wallet administration
		walletMgmt := adminGroup.Group("/wallet")
		{
			walletMgmt.POST("/adjust", walletControllers.AdjustWallet(d.Ledger, d.Cache))
			walletMgmt.GET("/settings", walletControllers.GetWalletSettings(d.DB))
			walletMgmt.PUT("/settings", walletControllers.UpdateWalletSettings(d.DB))
		}

		// Support tooling
		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", cartControllers.GetAdminUserCart(d.DB))
		}
	}
}
