package handlers

import (
	"net/http"

	"staymypg/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves the admin moderation feed
type WebSocketHandler struct {
	hub *services.WSHub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleModerationFeed handles GET /ws/moderation
func (h *WebSocketHandler) HandleModerationFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	connID := uuid.New().String()
	h.hub.Register(connID, conn)
	defer h.hub.Unregister(connID)

	if err := h.hub.SendTo(connID, services.WSMessage{Type: "hello", Message: "moderation feed"}); err != nil {
		log.Error().Err(err).Str("conn_id", connID).Msg("Failed to greet moderation client")
		return
	}

	// The feed is one-way; reading only detects the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("conn_id", connID).Msg("WebSocket error")
			}
			return
		}
	}
}
