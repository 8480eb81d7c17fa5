package routes

import (
	"github.com/gin-gonic/gin"
	chatControllers "github.com/kaushlendrathe1710/lelekart-api/controllers/chat"
	"github.com/kaushlendrathe1710/lelekart-api/middleware"
)

// SetupChatRoutes registers chat endpoints. The websocket delivers
// notifications only; history always comes from the database.
func SetupChatRoutes(r *gin.Engine, d Deps) {
	// Websocket endpoint for real-time notifications
	r.GET("/ws/chat/:sessionID", chatControllers.ChatWebSocketHandler(d.Hub))

	chatGroup := r.Group("/chat")
	chatGroup.Use(middleware.ValidateToken)
	{
		chatGroup.POST("/messages", chatControllers.SendMessage(d.DB, d.Hub))
		chatGroup.GET("/:sessionID/messages", chatControllers.GetSessionHistory(d.DB))
	}
}
