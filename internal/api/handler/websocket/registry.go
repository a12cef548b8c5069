package websocket

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Registry maps user IDs to their live agent connection. A user holds at
// most one entry; registering again evicts the previous connection.
type Registry struct {
	clients map[uint]*Client
	mu      sync.RWMutex
	Logger  zerolog.Logger
}

// ConnectionInfo is a point-in-time view of one registered connection.
type ConnectionInfo struct {
	ConnectionID string    `json:"connectionId"`
	UserID       uint      `json:"userId"`
	Username     string    `json:"username"`
	ConnectedAt  time.Time `json:"connectedAt"`
	LastActivity time.Time `json:"lastActivity"`
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		clients: make(map[uint]*Client),
		Logger:  logger,
	}
}

// Register installs client as the connection for userID. An existing live
// connection for the same user is told it was replaced and closed first.
func (r *Registry) Register(userID uint, client *Client) {
	r.mu.Lock()
	prev, exists := r.clients[userID]
	r.clients[userID] = client
	r.mu.Unlock()

	if exists && prev != client {
		r.Logger.Info().
			Uint("userId", userID).
			Str("evictedClientId", prev.ID).
			Str("clientId", client.ID).
			Msg("Evicting previous connection for user")
		prev.sendClose(NewErrorMessage("session replaced by a newer connection"))
	}

	r.Logger.Info().
		Uint("userId", userID).
		Str("clientId", client.ID).
		Msg("Connection registered")
}

// Lookup returns the live connection for userID. A mapped connection that is
// no longer alive is removed and treated as absent.
func (r *Registry) Lookup(userID uint) (*Client, bool) {
	r.mu.RLock()
	client, exists := r.clients[userID]
	r.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if !client.Alive() {
		r.mu.Lock()
		if r.clients[userID] == client {
			delete(r.clients, userID)
		}
		r.mu.Unlock()
		r.Logger.Debug().
			Uint("userId", userID).
			Str("clientId", client.ID).
			Msg("Dropped stale connection mapping")
		return nil, false
	}
	return client, true
}

// Remove drops the mapping for userID. Absence is not an error.
func (r *Registry) Remove(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, userID)
}

// RemoveClient drops the mapping held by this exact client. A newer
// connection registered for the same user is left untouched.
func (r *Registry) RemoveClient(client *Client) {
	userID, _ := client.Identity()
	if userID == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clients[userID] == client {
		delete(r.clients, userID)
		r.Logger.Info().
			Uint("userId", userID).
			Str("clientId", client.ID).
			Msg("Connection unregistered")
	}
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Snapshot lists the registered connections for the dashboard.
func (r *Registry) Snapshot() []ConnectionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ConnectionInfo, 0, len(r.clients))
	for userID, client := range r.clients {
		_, username := client.Identity()
		infos = append(infos, ConnectionInfo{
			ConnectionID: client.ID,
			UserID:       userID,
			Username:     username,
			ConnectedAt:  client.ConnectedAt,
			LastActivity: client.LastActivity(),
		})
	}
	return infos
}
