package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"chargeslot/internal/service"
)

// Hub fans reservation events out to connected websocket clients. Publishing
// never blocks the reservation path: slow clients get dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub builds hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Publish broadcasts an event to every connected client.
func (h *Hub) Publish(event service.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to encode event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Client is not keeping up; its write pump will be closed.
			go client.Close()
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// ClientCount reports currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
