// Package socket tracks live websocket connections so freshly created
// notifications can be pushed to users who are online. The inbox endpoint
// stays authoritative; a push to a disconnected user is simply dropped.
package socket

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub manages all connected websocket clients, keyed by user id.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		logger:  logger,
	}
}

// Register adds a client connection for a user, replacing any previous one.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	h.logger.Info("websocket client registered", "user_id", userID)
}

// Unregister removes a user's connection.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		h.logger.Info("websocket client unregistered", "user_id", userID)
	}
}

// Push sends a message to one user. A missing client (user offline) is not
// an error.
func (h *Hub) Push(userID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.clients[userID]
	if !ok {
		return nil
	}
	return conn.WriteMessage(websocket.TextMessage, message)
}
