package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dimitrije/maintenance-api/internal/notify"
	"github.com/google/uuid"
)

type Client struct {
	ID        string
	UserID    uuid.UUID
	CompanyID uuid.UUID
	// Equipment narrows the feed to the listed equipment; empty means all.
	Equipment map[uuid.UUID]bool
	Send      chan []byte
}

func (c *Client) wants(evt notify.Event) bool {
	if c.CompanyID != evt.CompanyID {
		return false
	}
	if len(c.Equipment) == 0 {
		return true
	}
	return evt.EquipmentID != nil && c.Equipment[*evt.EquipmentID]
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan notify.Event
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan notify.Event, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			data, _ := json.Marshal(evt)
			h.mu.RLock()
			for _, client := range h.clients {
				if client.wants(evt) {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// WatchEquipment narrows the client's feed to the given equipment. It reports
// false when no client with that id belongs to userID.
func (h *Hub) WatchEquipment(clientID string, userID, equipmentID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if !ok || client.UserID != userID {
		return false
	}
	if client.Equipment == nil {
		client.Equipment = make(map[uuid.UUID]bool)
	}
	client.Equipment[equipmentID] = true
	return true
}

func (h *Hub) UnwatchEquipment(clientID string, userID, equipmentID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok && client.UserID == userID {
		delete(client.Equipment, equipmentID)
	}
}

// Handle queues evt for connected clients of its company.
func (h *Hub) Handle(ctx context.Context, evt notify.Event) error {
	select {
	case h.broadcast <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
