package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/chat"
	"github.com/kaushlendrathe1710/lelekart-api/checkout"
	"github.com/kaushlendrathe1710/lelekart-api/shipping"
	"github.com/kaushlendrathe1710/lelekart-api/wallet"
	"gorm.io/gorm"
)

// Deps carries everything the route groups need. main.go builds one and
// hands it down; handlers receive only the pieces they use.
type Deps struct {
	DB         *gorm.DB
	Cache      *cache.Store
	Hub        *chat.Hub
	Ledger     *wallet.Ledger
	Checkout   *checkout.Service
	Dispatcher *shipping.Dispatcher
	Shiprocket *shipping.Client
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// Buyer routes (JWT-protected)
	SetupUserRoutes(r, d)

	// Seller routes (JWT-protected, seller role)
	SetupSellerRoutes(r, d)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, d)

	// Checkout and order routes
	SetupOrderRoutes(r, d)

	// Chat routes (websocket + history)
	SetupChatRoutes(r, d)
}
