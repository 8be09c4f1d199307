package websocket

import (
	"encoding/json"
	"sync"

	"miningdash/internal/logger"
)

// Hub tracks live subscribers keyed by owner id. Anonymous subscribers live under "".
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(ownerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ownerID] == nil {
		h.clients[ownerID] = make(map[*Client]struct{})
	}
	h.clients[ownerID][client] = struct{}{}
}

func (h *Hub) Unregister(ownerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ownerID] == nil {
		return
	}
	delete(h.clients[ownerID], client)
	if len(h.clients[ownerID]) == 0 {
		delete(h.clients, ownerID)
	}
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, set := range h.clients {
		total += len(set)
	}
	return total
}

// Publish sends msg to every subscriber.
func (h *Hub) Publish(msg Message) {
	payload, ok := encode(msg)
	if !ok {
		return
	}
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, set := range h.clients {
		for client := range set {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()
	deliver(targets, payload)
}

// PublishTo sends msg to the subscribers of one owner.
func (h *Hub) PublishTo(ownerID string, msg Message) {
	payload, ok := encode(msg)
	if !ok {
		return
	}
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[ownerID]))
	for client := range h.clients[ownerID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()
	deliver(targets, payload)
}

func encode(msg Message) ([]byte, bool) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("encode %s message: %v", msg.Type, err)
		return nil, false
	}
	return payload, true
}

// deliver never blocks: closed clients and clients with a full buffer are skipped.
func deliver(targets []*Client, payload []byte) {
	for _, client := range targets {
		client.enqueue(payload)
	}
}
