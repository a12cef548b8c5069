package websocket

import (
	"time"
)

// Message is the envelope for every frame on the agent channel. Data holds
// the payload struct matching Type.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data,omitempty"`
}

// MessageType represents the type of WebSocket message
type MessageType string

const (
	// Channel authentication
	MessageTypeAuthenticate  MessageType = "authenticate"
	MessageTypeAuthenticated MessageType = "authenticated"
	MessageTypeAuthTimeout   MessageType = "auth_timeout"

	// Job delivery
	MessageTypeJobReady     MessageType = "job-ready"
	MessageTypeJobReceived  MessageType = "job-received"
	MessageTypeStatusUpdate MessageType = "status-update"

	// Liveness
	MessageTypeHeartbeat    MessageType = "heartbeat"
	MessageTypeHeartbeatAck MessageType = "heartbeat-ack"

	// System messages
	MessageTypeError MessageType = "error"
)
