package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staymypg/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSHub_BroadcastsModerationEvents(t *testing.T) {
	hub := NewWSHub()
	registered := make(chan struct{})

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register("admin-1", conn)
		close(registered)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered")
	}
	assert.Equal(t, 1, hub.Count())

	hub.ListingSubmitted(models.Listing{ID: "pg-1", Name: "Sunrise", OwnerMobile: "999"})
	hub.ListingApproved("pg-1")

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "listing_submitted", msg.Type)
	assert.NotZero(t, msg.Timestamp)
	assert.Equal(t, "Sunrise", msg.Data.(map[string]interface{})["name"])

	_, data, err = client.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "listing_approved", msg.Type)

	hub.Unregister("admin-1")
	assert.Equal(t, 0, hub.Count())
	assert.Error(t, hub.SendTo("admin-1", WSMessage{Type: "ping"}))
}

func dialFeed(t *testing.T, hub *WSHub, connID string) *websocket.Conn {
	t.Helper()
	registered := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(connID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatalf("connection %s was not registered", connID)
	}
	return client
}

func TestWSHub_BusyConnectionDoesNotBlockOthers(t *testing.T) {
	hub := NewWSHub()
	dialFeed(t, hub, "slow")
	fast := dialFeed(t, hub, "fast")

	hub.mu.RLock()
	slow := hub.connections["slow"]
	hub.mu.RUnlock()
	slow.writeMu.Lock()
	defer slow.writeMu.Unlock()

	done := make(chan error, 1)
	go func() { done <- hub.SendTo("fast", WSMessage{Type: "listing_approved"}) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("write to one connection waited on another")
	}

	fast.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := fast.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "listing_approved")
}
