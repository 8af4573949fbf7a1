package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event types
const (
	EventFactoryUpdate    = "factory_update"
	EventInspectionUpdate = "inspection_update"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates a new SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("sse client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("sse client unregistered",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("sse client buffer full, skipping event", zap.String("client_id", client.ID))
		}
	}
}

type changePayload struct {
	ID     uint   `json:"id"`
	Action string `json:"action"`
}

// PublishFactoryUpdate announces a factory create/update/delete.
func (h *Hub) PublishFactoryUpdate(id uint, action string) {
	h.publish(EventFactoryUpdate, id, action)
}

// PublishInspectionUpdate announces an inspection create/update/delete.
func (h *Hub) PublishInspectionUpdate(id uint, action string) {
	h.publish(EventInspectionUpdate, id, action)
}

func (h *Hub) publish(eventType string, id uint, action string) {
	data, _ := json.Marshal(changePayload{ID: id, Action: action})
	h.Broadcast(Event{EventType: eventType, Data: string(data)})
	h.logger.Debug("sse published", zap.String("event", eventType), zap.Uint("id", id), zap.String("action", action))
}
