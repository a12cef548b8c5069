package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512 * 1024 // 512KB
)

// Client is one agent connection. It starts unauthenticated; identity is
// claimed in-channel with an authenticate frame before the auth timer fires.
type Client struct {
	ID          string
	Hub         *Hub
	Conn        *websocket.Conn
	Send        chan Message
	Processor   *MessageProcessor
	Logger      zerolog.Logger
	ConnectedAt time.Time

	mu            sync.Mutex
	userID        uint
	username      string
	authenticated bool
	lastActivity  time.Time
	closed        bool
	timedOut      bool
	authTimer     *time.Timer
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, processor *MessageProcessor, authTimeout time.Duration, logger zerolog.Logger) *Client {
	client := &Client{
		ID:          id,
		Hub:         hub,
		Conn:        conn,
		Send:        make(chan Message, 256),
		Processor:   processor,
		Logger:      logger,
		ConnectedAt: time.Now(),
	}
	client.mu.Lock()
	client.lastActivity = client.ConnectedAt
	client.authTimer = time.AfterFunc(authTimeout, client.authTimedOut)
	client.mu.Unlock()

	return client
}

// authTimedOut fires when the auth window lapses. The decision is settled
// under the lock: either an authenticate already won, or timedOut is set so
// a late authenticate cannot claim the closing connection.
func (c *Client) authTimedOut() {
	c.mu.Lock()
	if c.authenticated || c.closed {
		c.mu.Unlock()
		return
	}
	c.timedOut = true
	c.mu.Unlock()

	c.Logger.Warn().Str("clientId", c.ID).Msg("Connection not authenticated in time, closing")
	c.sendClose(NewAuthTimeoutMessage())
}

// Authenticated reports whether the connection has claimed an identity.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// Identity returns the authenticated user, or (0, "") before authentication.
func (c *Client) Identity() (uint, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.authenticated {
		return 0, ""
	}
	return c.userID, c.username
}

// setIdentity claims the connection for a user. Returns false when the auth
// window already lapsed or the connection is closing.
func (c *Client) setIdentity(userID uint, username string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timedOut || c.closed {
		return false
	}
	c.userID = userID
	c.username = username
	c.authenticated = true
	if c.authTimer != nil {
		c.authTimer.Stop()
	}
	return true
}

// Touch refreshes the activity timestamp. Called on every inbound frame.
func (c *Client) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActivity = time.Now()
}

func (c *Client) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// Alive reports whether the connection has not been shut down yet.
func (c *Client) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// send enqueues a message for the write pump. Returns false when the client
// is gone or its buffer is full; delivery is best effort either way.
func (c *Client) send(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		c.Logger.Warn().Str("clientId", c.ID).Msg("Client send buffer full, message dropped")
		return false
	}
}

// sendClose enqueues one final frame and closes the send channel. The write
// pump drains the buffer before sending the close frame, so the peer sees
// the reason for the teardown rather than a bare close.
func (c *Client) sendClose(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.authTimer != nil {
		c.authTimer.Stop()
	}
	select {
	case c.Send <- msg:
	default:
	}
	close(c.Send)
}

// shutdown marks the client dead and closes its send channel. Called once by
// the hub during unregistration.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.authTimer != nil {
		c.authTimer.Stop()
	}
	close(c.Send)
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Logger.Error().Err(err).Str("clientId", c.ID).Msg("WebSocket read error")
			}
			break
		}

		var msg Message
		if err = json.Unmarshal(messageBytes, &msg); err != nil {
			c.Logger.Error().Err(err).Str("clientId", c.ID).Msg("Failed to unmarshal message")
			c.send(NewErrorMessage("invalid message format"))
			continue
		}

		c.Touch()
		c.Processor.Handle(c, &msg)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			messageBytes, err := json.Marshal(message)
			if err != nil {
				c.Logger.Error().Err(err).Msg("Failed to marshal message")
				continue
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
