package agent

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"printhub/internal/api/handler/response"
)

// BridgeRenderer hands the prepared payload to a local print bridge (QZ Tray
// or compatible). The payload is forwarded as-is; the bridge owns rendering.
type BridgeRenderer struct {
	BridgeURL string
	Client    *http.Client
}

func NewBridgeRenderer(bridgeURL string) *BridgeRenderer {
	return &BridgeRenderer{
		BridgeURL: bridgeURL,
		Client:    &http.Client{Timeout: 2 * time.Minute},
	}
}

func (slf *BridgeRenderer) Render(ctx context.Context, job response.PrintJobResponseDTO) error {
	if len(job.Payload) == 0 {
		return fmt.Errorf("job %d has no payload", job.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, slf.BridgeURL, bytes.NewReader(job.Payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := slf.Client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}
	return nil
}
