package chat

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/kaushlendrathe1710/lelekart-api/models"
)

// Hub fans chat messages out to websocket connections grouped by session.
// The socket is a notification channel only: delivery is fire-and-forget with
// per-connection FIFO ordering, and reconnecting clients re-fetch history
// from the database.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[*conn]struct{}
}

type conn struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*conn]struct{})}
}

// Attach registers a websocket on a session and blocks until the peer goes
// away. The caller owns the upgrade; Attach owns the connection lifecycle.
func (h *Hub) Attach(sessionID string, ws *websocket.Conn) {
	c := &conn{ws: ws, send: make(chan []byte, 32)}

	h.mu.Lock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*conn]struct{})
	}
	h.sessions[sessionID][c] = struct{}{}
	h.mu.Unlock()

	// Single writer goroutine per connection keeps delivery FIFO.
	go func() {
		for msg := range c.send {
			if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	h.detach(sessionID, c)
}

func (h *Hub) detach(sessionID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.sessions[sessionID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.sessions, sessionID)
		}
	}
	c.ws.Close()
}

// Broadcast notifies every connection on a session about a new message. Slow
// consumers are dropped rather than blocking the sender.
func (h *Hub) Broadcast(msg models.ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	var stale []*conn
	for c := range h.sessions[msg.SessionID] {
		select {
		case c.send <- data:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stale {
		log.Printf("⚠️ dropping slow chat consumer on session %s", msg.SessionID)
		h.detach(msg.SessionID, c)
	}
}
