package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"staymypg/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a moderation feed message
type WSMessage struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// wsClient is one feed connection. gorilla allows one concurrent writer
// per connection, so writes hold the client's own lock.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub fans moderation events out to connected admin clients
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsClient
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*wsClient),
	}
}

// Register adds a connection under connID
func (h *WSHub) Register(connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[connID]; ok {
		existing.conn.Close()
	}
	h.connections[connID] = &wsClient{conn: conn}

	log.Info().Str("conn_id", connID).Msg("Moderation feed connection registered")
}

// Unregister closes and removes a connection
func (h *WSHub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.connections[connID]; ok {
		client.conn.Close()
		delete(h.connections, connID)
		log.Info().Str("conn_id", connID).Msg("Moderation feed connection unregistered")
	}
}

// Count returns the number of connected clients
func (h *WSHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// SendTo sends a message to one connection
func (h *WSHub) SendTo(connID string, message WSMessage) error {
	h.mu.RLock()
	client, ok := h.connections[connID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("connection %s is not registered", connID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(connID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Broadcast sends a message to every connection. Failed connections are dropped.
func (h *WSHub) Broadcast(message WSMessage) {
	if message.Timestamp == 0 {
		message.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	ids := make([]string, 0, len(h.connections))
	for id := range h.connections {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		if err := h.SendTo(id, message); err != nil {
			log.Error().Err(err).Str("conn_id", id).Str("type", message.Type).Msg("Failed to deliver moderation event")
		}
	}
}

// ListingSubmitted announces a listing waiting for approval
func (h *WSHub) ListingSubmitted(listing models.Listing) {
	h.Broadcast(WSMessage{
		Type: "listing_submitted",
		Data: map[string]interface{}{
			"id":          listing.ID,
			"name":        listing.Name,
			"location":    listing.Location,
			"ownerMobile": listing.OwnerMobile,
		},
	})
}

// ListingApproved announces an approval
func (h *WSHub) ListingApproved(id string) {
	h.Broadcast(WSMessage{
		Type: "listing_approved",
		Data: map[string]interface{}{"id": id},
	})
}
