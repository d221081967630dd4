package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nexscholar/backend/pkg/logger"
)

// EventNotificationSent is pushed on a user's private channel whenever a
// notification is persisted for them.
const EventNotificationSent = "notification.sent"

// ChannelName returns the private channel name for a user.
func ChannelName(userID uint) string {
	return fmt.Sprintf("App.Models.User.%d", userID)
}

// Message is the wire envelope pushed to clients
type Message struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Data    interface{} `json:"data"`
}

// Hub tracks the open websocket connections per user and pushes events to
// the connections subscribed to that user's private channel.
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[*websocket.Conn]bool
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]bool)}
}

// Register adds a connection to the user's private channel
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

// Unregister removes a connection and closes it
func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
	conn.Close()
}

// Push sends an event to every connection on the user's private channel.
// Dead connections are dropped; push failures never propagate.
func (h *Hub) Push(userID uint, event string, data interface{}) {
	payload, err := json.Marshal(Message{
		Channel: ChannelName(userID),
		Event:   event,
		Data:    data,
	})
	if err != nil {
		logger.L.WithError(err).Warn("failed to marshal realtime message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.L.WithError(err).Debug("dropping dead websocket connection")
			delete(h.clients[userID], conn)
			conn.Close()
		}
	}
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}
