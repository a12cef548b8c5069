package websocket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub tracks every open connection, authenticated or not, and owns their
// teardown. User identity mapping lives in the Registry.
type Hub struct {
	Registry *Registry

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	clients map[string]*Client
	mu      sync.RWMutex

	Logger zerolog.Logger
}

func NewHub(registry *Registry, logger zerolog.Logger) *Hub {
	return &Hub{
		Registry:   registry,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		Logger:     logger,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.Logger.Info().
		Str("clientId", client.ID).
		Int("totalClients", total).
		Msg("Connection opened")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, exists := h.clients[client.ID]
	if exists {
		delete(h.clients, client.ID)
	}
	remaining := len(h.clients)
	h.mu.Unlock()

	if !exists {
		return
	}

	h.Registry.RemoveClient(client)
	client.shutdown()

	h.Logger.Info().
		Str("clientId", client.ID).
		Int("remainingClients", remaining).
		Msg("Connection closed")
}

// NotifyJobReady pushes a job to the owner's live connection. Returns false
// when no live connection exists; the caller leaves the job for pickup.
func (h *Hub) NotifyJobReady(userID uint, job any) bool {
	client, ok := h.Registry.Lookup(userID)
	if !ok {
		return false
	}
	return client.send(NewJobReadyMessage(job))
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
