package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/cart"
	productControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/product"
	userControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/user"
	walletControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/wallet"
	"github.com/kaushlendrathe1710/lelekart-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// User profile
		userGroup.GET("/", userControllers.GetUser(d.DB))
		userGroup.PUT("/", userControllers.UpdateUser(d.DB))

		// Shopping cart
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(d.DB, d.Cache))
			cartGroup.POST("/", cartControllers.UpdateCartItem(d.DB, d.Cache))
			cartGroup.DELETE("/:item_id", cartControllers.DeleteCartItem(d.DB, d.Cache))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(d.DB, d.Cache))
		}

		// Coin wallet (read-only for buyers, credits come from admin or promos)
		walletGroup := userGroup.Group("/wallet")
		{
			walletGroup.GET("/", walletControllers.GetWallet(d.Ledger, d.Cache))
			walletGroup.GET("/transactions", walletControllers.GetWalletTransactions(d.Ledger))
		}

		// Browse approved products
		userGroup.GET("/products", productControllers.GetProducts(d.DB))
		userGroup.GET("/products/:id", productControllers.GetProductByID(d.DB, d.Cache))
	}
}
