package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"printhub/internal/api/models"
)

// APIKeyAuthenticator resolves an agent API key to its user.
type APIKeyAuthenticator interface {
	ResolveAPIKey(apiKey string) (models.User, error)
}

// JobStatusUpdater applies an agent-reported outcome to a job.
type JobStatusUpdater interface {
	UpdateStatus(jobID uint, status string, errText string) (models.PrintJob, error)
}

// MessageProcessor handles inbound agent frames.
type MessageProcessor struct {
	auth     APIKeyAuthenticator
	jobs     JobStatusUpdater
	registry *Registry
	logger   zerolog.Logger
}

func NewMessageProcessor(auth APIKeyAuthenticator, jobs JobStatusUpdater, registry *Registry, logger zerolog.Logger) *MessageProcessor {
	return &MessageProcessor{
		auth:     auth,
		jobs:     jobs,
		registry: registry,
		logger:   logger,
	}
}

// Handle dispatches one inbound frame for the given connection.
func (p *MessageProcessor) Handle(c *Client, msg *Message) {
	switch msg.Type {
	case MessageTypeAuthenticate:
		p.handleAuthenticate(c, msg)
	case MessageTypeJobReceived:
		p.handleJobReceived(c, msg)
	case MessageTypeStatusUpdate:
		p.handleStatusUpdate(c, msg)
	case MessageTypeHeartbeat:
		c.send(NewHeartbeatAckMessage())
	default:
		c.send(NewErrorMessage(fmt.Sprintf("unsupported message type: %s", msg.Type)))
	}
}

func (p *MessageProcessor) handleAuthenticate(c *Client, msg *Message) {
	var data AuthenticateData
	if err := decodeData(msg, &data); err != nil || data.APIKey == "" {
		c.sendClose(NewAuthFailedMessage("missing API key"))
		return
	}

	user, err := p.auth.ResolveAPIKey(data.APIKey)
	if err != nil {
		p.logger.Warn().
			Str("clientId", c.ID).
			Msg("WebSocket authentication failed")
		c.sendClose(NewAuthFailedMessage("invalid API key"))
		return
	}

	if !c.setIdentity(user.ID, user.Username) {
		p.logger.Warn().
			Str("clientId", c.ID).
			Msg("Authentication arrived after the connection was closed")
		return
	}
	p.registry.Register(user.ID, c)
	c.send(NewAuthenticatedMessage(user.ID, user.Username))

	p.logger.Info().
		Str("clientId", c.ID).
		Uint("userId", user.ID).
		Str("username", user.Username).
		Msg("Agent authenticated")
}

func (p *MessageProcessor) handleJobReceived(c *Client, msg *Message) {
	if !p.requireAuth(c) {
		return
	}

	var data JobReceivedData
	if err := decodeData(msg, &data); err != nil {
		c.send(NewErrorMessage("invalid job-received data"))
		return
	}

	userID, _ := c.Identity()
	p.logger.Info().
		Uint("jobId", data.JobID).
		Uint("userId", userID).
		Msg("Agent acknowledged job delivery")
}

func (p *MessageProcessor) handleStatusUpdate(c *Client, msg *Message) {
	if !p.requireAuth(c) {
		return
	}

	var data StatusUpdateData
	if err := decodeData(msg, &data); err != nil {
		c.send(NewErrorMessage("invalid status-update data"))
		return
	}

	userID, _ := c.Identity()
	if _, err := p.jobs.UpdateStatus(data.JobID, data.Status, data.Error); err != nil {
		p.logger.Error().
			Err(err).
			Uint("jobId", data.JobID).
			Uint("userId", userID).
			Str("status", data.Status).
			Msg("Failed to apply status update")
		c.send(NewErrorMessage(err.Error()))
		return
	}

	p.logger.Info().
		Uint("jobId", data.JobID).
		Uint("userId", userID).
		Str("status", data.Status).
		Msg("Job status updated via WebSocket")
}

func (p *MessageProcessor) requireAuth(c *Client) bool {
	if !c.Authenticated() {
		c.send(NewErrorMessage("not authenticated"))
		return false
	}
	return true
}

func decodeData(msg *Message, out any) error {
	dataBytes, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal message data: %w", err)
	}

	if err := json.Unmarshal(dataBytes, out); err != nil {
		return fmt.Errorf("invalid message data: %w", err)
	}

	return nil
}
