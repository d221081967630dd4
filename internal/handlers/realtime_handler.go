package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nexscholar/backend/internal/realtime"
	"github.com/nexscholar/backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin clients are allowed; auth happens via the JWT middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RealtimeHandler upgrades clients onto their private notification channel
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// RegisterRealtimeRoutes registers the websocket endpoint
func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/ws", h.Subscribe)
}

// Subscribe upgrades the connection and keeps it registered on the user's
// private channel until the client disconnects.
func (h *RealtimeHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.L.WithError(err).Warn("websocket upgrade failed")
		return err
	}

	h.hub.Register(currentUserID, conn)
	defer h.hub.Unregister(currentUserID, conn)

	// Drain reads until the peer closes; pushes happen from the hub.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}
