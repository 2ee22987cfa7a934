package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargeslot/internal/service"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop())

	server := httptest.NewServer(http.HandlerFunc(hub.ServeEvents))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the hub to register the client.
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(service.Event{
		Type:           service.EventBookingCreated,
		BookingID:      7,
		StationID:      "st-1",
		AvailableSlots: 3,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event service.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, service.EventBookingCreated, event.Type)
	assert.EqualValues(t, 7, event.BookingID)
	assert.Equal(t, "st-1", event.StationID)
	assert.Equal(t, 3, event.AvailableSlots)
}

func TestHubRemovesClosedClients(t *testing.T) {
	hub := NewHub(zap.NewNop())

	server := httptest.NewServer(http.HandlerFunc(hub.ServeEvents))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestPublishWithoutClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	// Must not block or panic.
	hub.Publish(service.Event{Type: service.EventBookingCancelled, StationID: "st-1"})
	assert.Equal(t, 0, hub.ClientCount())
}
