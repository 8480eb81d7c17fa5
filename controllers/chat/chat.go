package chatControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kaushlendrathe1710/lelekart-api/chat"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /ws/chat/:sessionID
// The socket only notifies; history lives in the database and is re-fetched
// on reconnect.
func ChatWebSocketHandler(hub *chat.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionID is required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		hub.Attach(sessionID, conn)
	}
}

type SendMessageInput struct {
	SessionID string `json:"session_id" binding:"required"`
	Body      string `json:"body" binding:"required"`
}

// POST /chat/messages
// Persists the message first, then fans it out. A dropped notification is
// harmless: the durable record is the source of truth.
func SendMessage(db *gorm.DB, hub *chat.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		role := models.Role(c.GetString("role"))

		var input SendMessageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		msg := models.ChatMessage{
			SessionID: input.SessionID,
			SenderID:  userID,
			Role:      role,
			Body:      input.Body,
		}
		if err := db.Create(&msg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
			return
		}

		hub.Broadcast(msg)
		c.JSON(http.StatusCreated, msg)
	}
}

// GET /chat/:sessionID/messages
func GetSessionHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")

		var messages []models.ChatMessage
		if err := db.Where("session_id = ?", sessionID).
			Order("created_at ASC, id ASC").
			Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}
