package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/mfournier/cubetag/internal/events"
)

// Hub tracks live connections and implements events.Broadcaster for the
// services. Messages to a client go through its buffered send channel; a
// client that cannot keep up is dropped rather than allowed to block the
// rest of the arena.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends the event to every live connection
func (h *Hub) Broadcast(event events.Event) {
	data, ok := encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.trySend(data)
	}
}

// BroadcastExcept sends the event to every live connection but one
func (h *Hub) BroadcastExcept(exceptConnID string, event events.Event) {
	data, ok := encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == exceptConnID {
			continue
		}
		c.trySend(data)
	}
}

// SendTo sends the event to a single connection, a no-op if it is gone
func (h *Hub) SendTo(connID string, event events.Event) {
	data, ok := encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	c, exists := h.clients[connID]
	h.mu.RUnlock()
	if exists {
		c.trySend(data)
	}
}

func encode(event events.Event) ([]byte, bool) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal %s event: %v", event.Type, err)
		return nil, false
	}
	return data, true
}
