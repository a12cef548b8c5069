package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	channel "printhub/internal/api/handler/websocket"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
)

const (
	defaultPollInterval      = 5 * time.Second
	defaultHeartbeatInterval = 30 * time.Second
	reconnectDelay           = 5 * time.Second
	authReplyWait            = 10 * time.Second
)

// Renderer executes a prepared print payload against the local print system.
type Renderer interface {
	Render(ctx context.Context, job response.PrintJobResponseDTO) error
}

type Config struct {
	ServerURL         string
	APIKey            string
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
}

// Agent maintains the push connection to the server and polls the pickup
// endpoint as a fallback. Both delivery paths funnel into the same Guard, so
// a job that arrives twice executes once.
type Agent struct {
	cfg      Config
	renderer Renderer
	guard    *Guard
	logger   zerolog.Logger

	httpClient *http.Client

	connMu sync.Mutex
	conn   *websocket.Conn
}

func New(cfg Config, renderer Renderer, logger zerolog.Logger) *Agent {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	return &Agent{
		cfg:        cfg,
		renderer:   renderer,
		guard:      NewGuard(),
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Run blocks until ctx is cancelled, keeping the push connection alive and
// the poll loop running.
func (slf *Agent) Run(ctx context.Context) error {
	go slf.pollLoop(ctx)

	for {
		if err := slf.runConnection(ctx); err != nil && ctx.Err() == nil {
			slf.logger.Warn().Err(err).Msg("Push connection lost, reconnecting")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (slf *Agent) runConnection(ctx context.Context) error {
	wsURL, err := slf.websocketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	if err := slf.authenticate(conn); err != nil {
		// One bounded retry covers a transiently unavailable auth backend.
		slf.logger.Warn().Err(err).Msg("Authentication failed, retrying once")
		if err := slf.authenticate(conn); err != nil {
			return err
		}
	}

	slf.setConn(conn)
	defer slf.setConn(nil)
	slf.logger.Info().Msg("Push connection established")

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go slf.heartbeatLoop(heartbeatCtx)

	return slf.readLoop(ctx, conn)
}

func (slf *Agent) authenticate(conn *websocket.Conn) error {
	msg := channel.Message{
		Type:      channel.MessageTypeAuthenticate,
		Timestamp: time.Now(),
		Data:      channel.AuthenticateData{APIKey: slf.cfg.APIKey},
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send authenticate: %w", err)
	}

	deadline := time.Now().Add(authReplyWait)
	if err := conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	defer conn.SetReadDeadline(time.Time{})

	for {
		var reply channel.Message
		if err := conn.ReadJSON(&reply); err != nil {
			return fmt.Errorf("read auth reply: %w", err)
		}
		if reply.Type != channel.MessageTypeAuthenticated {
			continue
		}

		var data channel.AuthenticatedData
		if err := decodeData(reply.Data, &data); err != nil {
			return err
		}
		if !data.Success {
			return fmt.Errorf("authentication rejected: %s", data.Error)
		}
		slf.logger.Info().
			Uint("userId", data.UserID).
			Str("username", data.Username).
			Msg("Authenticated")
		return nil
	}
}

func (slf *Agent) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg channel.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		switch msg.Type {
		case channel.MessageTypeJobReady:
			var job response.PrintJobResponseDTO
			if err := decodeData(msg.Data, &job); err != nil {
				slf.logger.Error().Err(err).Msg("Malformed job push")
				continue
			}
			slf.acknowledge(job.ID)
			go slf.process(ctx, job, "push")

		case channel.MessageTypeHeartbeatAck:
			slf.logger.Debug().Msg("Heartbeat acknowledged")

		case channel.MessageTypeAuthTimeout:
			return errors.New("server closed the session: authentication timeout")

		case channel.MessageTypeError:
			var data channel.ErrorMessage
			_ = decodeData(msg.Data, &data)
			slf.logger.Warn().Str("serverMessage", data.Message).Msg("Server error frame")

		default:
			slf.logger.Debug().Str("type", string(msg.Type)).Msg("Ignoring unexpected frame")
		}
	}
}

func (slf *Agent) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(slf.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg := channel.Message{Type: channel.MessageTypeHeartbeat, Timestamp: time.Now()}
			if err := slf.writeMessage(msg); err != nil {
				slf.logger.Debug().Err(err).Msg("Heartbeat send failed")
				return
			}
		}
	}
}

// pollLoop is the pull side of delivery. It runs regardless of the push
// connection state, so jobs dispatched while the socket was down are still
// picked up.
func (slf *Agent) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(slf.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jobs, err := slf.fetchReadyJobs(ctx)
			if err != nil {
				slf.logger.Warn().Err(err).Msg("Polling ready jobs failed")
				continue
			}
			for _, job := range jobs {
				go slf.process(ctx, job, "poll")
			}
		}
	}
}

// process executes one job. The guard decides whether this delivery wins;
// losing deliveries are skipped silently apart from a log line.
func (slf *Agent) process(ctx context.Context, job response.PrintJobResponseDTO, via string) {
	if !slf.guard.Begin(job.ID) {
		slf.logger.Debug().
			Uint("jobId", job.ID).
			Str("via", via).
			Msg("Job already handled, skipping")
		return
	}

	slf.logger.Info().
		Uint("jobId", job.ID).
		Str("document", job.DocumentName).
		Str("via", via).
		Msg("Processing job")
	slf.reportStatus(ctx, job.ID, models.JobStatusProcessing, "")

	if err := slf.renderer.Render(ctx, job); err != nil {
		slf.guard.Fail(job.ID)
		slf.logger.Error().Err(err).Uint("jobId", job.ID).Msg("Job failed")
		slf.reportStatus(ctx, job.ID, models.JobStatusFailed, err.Error())
		return
	}

	slf.guard.Done(job.ID)
	slf.logger.Info().Uint("jobId", job.ID).Msg("Job completed")
	slf.reportStatus(ctx, job.ID, models.JobStatusCompleted, "")
}

// acknowledge confirms receipt of a pushed job. Receipt says nothing about
// the outcome; that follows as status updates.
func (slf *Agent) acknowledge(jobID uint) {
	msg := channel.Message{
		Type:      channel.MessageTypeJobReceived,
		Timestamp: time.Now(),
		Data:      channel.JobReceivedData{JobID: jobID},
	}
	if err := slf.writeMessage(msg); err != nil {
		slf.logger.Debug().Err(err).Uint("jobId", jobID).Msg("Receipt ack not sent")
	}
}

// reportStatus prefers the live socket and falls back to the HTTP endpoint,
// so outcomes survive a connection drop mid-job.
func (slf *Agent) reportStatus(ctx context.Context, jobID uint, status string, errText string) {
	msg := channel.Message{
		Type:      channel.MessageTypeStatusUpdate,
		Timestamp: time.Now(),
		Data:      channel.StatusUpdateData{JobID: jobID, Status: status, Error: errText},
	}
	if err := slf.writeMessage(msg); err == nil {
		return
	}

	if err := slf.putStatus(ctx, jobID, status, errText); err != nil {
		slf.logger.Error().
			Err(err).
			Uint("jobId", jobID).
			Str("status", status).
			Msg("Failed to report job status")
	}
}

func (slf *Agent) fetchReadyJobs(ctx context.Context) ([]response.PrintJobResponseDTO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, slf.cfg.ServerURL+"/api/print-jobs/ready", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+slf.cfg.APIKey)

	resp, err := slf.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pickup returned status %d", resp.StatusCode)
	}

	var jobs []response.PrintJobResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (slf *Agent) putStatus(ctx context.Context, jobID uint, status string, errText string) error {
	body, err := json.Marshal(request.UpdateJobStatusDTO{Status: status, Error: errText})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/print-jobs/%d/status", slf.cfg.ServerURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+slf.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := slf.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status update returned %d", resp.StatusCode)
	}
	return nil
}

func (slf *Agent) setConn(conn *websocket.Conn) {
	slf.connMu.Lock()
	slf.conn = conn
	slf.connMu.Unlock()
}

func (slf *Agent) writeMessage(msg channel.Message) error {
	slf.connMu.Lock()
	defer slf.connMu.Unlock()
	if slf.conn == nil {
		return errors.New("no live connection")
	}
	return slf.conn.WriteJSON(msg)
}

func (slf *Agent) websocketURL() (string, error) {
	u, err := url.Parse(slf.cfg.ServerURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/api/ws"
	return u.String(), nil
}

func decodeData(data any, dest any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
