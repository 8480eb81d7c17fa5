package models

import "time"

// ChatMessage is the durable record of a support-chat message. The websocket
// hub only notifies; reconnecting clients re-fetch history from here.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"index;not null" json:"session_id"`
	SenderID  string    `json:"sender_id"`
	Role      Role      `gorm:"type:VARCHAR(20)" json:"role"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
