package websocket

import (
	"time"
)

// AuthenticateData is sent by an agent to claim its identity.
type AuthenticateData struct {
	APIKey string `json:"apiKey"`
}

// AuthenticatedData is the server's reply to an authenticate frame.
type AuthenticatedData struct {
	Success  bool   `json:"success"`
	UserID   uint   `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JobReceivedData acknowledges delivery of a job to the agent. Receipt is
// distinct from the processing outcome reported later via status-update.
type JobReceivedData struct {
	JobID uint `json:"jobId"`
}

// StatusUpdateData reports the outcome of executing a job.
type StatusUpdateData struct {
	JobID  uint   `json:"jobId"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ErrorMessage carries a channel-level error to the peer.
type ErrorMessage struct {
	Message string `json:"message"`
}

func NewAuthenticatedMessage(userID uint, username string) Message {
	return Message{
		Type:      MessageTypeAuthenticated,
		Timestamp: time.Now(),
		Data:      AuthenticatedData{Success: true, UserID: userID, Username: username},
	}
}

func NewAuthFailedMessage(reason string) Message {
	return Message{
		Type:      MessageTypeAuthenticated,
		Timestamp: time.Now(),
		Data:      AuthenticatedData{Success: false, Error: reason},
	}
}

func NewAuthTimeoutMessage() Message {
	return Message{
		Type:      MessageTypeAuthTimeout,
		Timestamp: time.Now(),
		Data:      ErrorMessage{Message: "authentication timed out"},
	}
}

// NewJobReadyMessage wraps a job, payload included, for push delivery.
func NewJobReadyMessage(job any) Message {
	return Message{
		Type:      MessageTypeJobReady,
		Timestamp: time.Now(),
		Data:      job,
	}
}

func NewHeartbeatAckMessage() Message {
	return Message{
		Type:      MessageTypeHeartbeatAck,
		Timestamp: time.Now(),
	}
}

func NewErrorMessage(text string) Message {
	return Message{
		Type:      MessageTypeError,
		Timestamp: time.Now(),
		Data:      ErrorMessage{Message: text},
	}
}
