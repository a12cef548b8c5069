package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
)

type fakeRenderer struct {
	mu     sync.Mutex
	jobs   []uint
	failOn map[uint]error
}

func (f *fakeRenderer) Render(_ context.Context, job response.PrintJobResponseDTO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job.ID)
	if f.failOn != nil {
		if err, ok := f.failOn[job.ID]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeRenderer) rendered() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.jobs...)
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []string
	auth     string
}

func (r *statusRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var dto request.UpdateJobStatusDTO
		_ = json.NewDecoder(req.Body).Decode(&dto)
		r.mu.Lock()
		r.statuses = append(r.statuses, dto.Status)
		r.auth = req.Header.Get("Authorization")
		r.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (r *statusRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.statuses...)
}

func newTestAgent(serverURL string, renderer Renderer) *Agent {
	return New(Config{ServerURL: serverURL, APIKey: "test-key"}, renderer, zerolog.Nop())
}

func TestWebsocketURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8080":  "ws://localhost:8080/api/ws",
		"https://print.example":  "wss://print.example/api/ws",
		"ws://localhost:8080":    "ws://localhost:8080/api/ws",
		"wss://print.example:90": "wss://print.example:90/api/ws",
	}
	for in, want := range cases {
		a := newTestAgent(in, &fakeRenderer{})
		got, err := a.websocketURL()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	a := newTestAgent("ftp://nope", &fakeRenderer{})
	_, err := a.websocketURL()
	assert.Error(t, err)
}

func TestProcessReportsLifecycle(t *testing.T) {
	recorder := &statusRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	renderer := &fakeRenderer{}
	a := newTestAgent(server.URL, renderer)

	a.process(context.Background(), response.PrintJobResponseDTO{ID: 5, DocumentName: "invoice.pdf"}, "poll")

	assert.Equal(t, []uint{5}, renderer.rendered())
	assert.Equal(t, []string{models.JobStatusProcessing, models.JobStatusCompleted}, recorder.recorded())
	assert.Equal(t, "Bearer test-key", recorder.auth)
}

func TestProcessReportsFailure(t *testing.T) {
	recorder := &statusRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	renderer := &fakeRenderer{failOn: map[uint]error{9: errors.New("paper jam")}}
	a := newTestAgent(server.URL, renderer)

	a.process(context.Background(), response.PrintJobResponseDTO{ID: 9}, "push")

	assert.Equal(t, []string{models.JobStatusProcessing, models.JobStatusFailed}, recorder.recorded())
}

func TestProcessSkipsDuplicateDelivery(t *testing.T) {
	recorder := &statusRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	renderer := &fakeRenderer{}
	a := newTestAgent(server.URL, renderer)

	job := response.PrintJobResponseDTO{ID: 12}
	a.process(context.Background(), job, "push")
	a.process(context.Background(), job, "poll")

	assert.Equal(t, []uint{12}, renderer.rendered(), "second delivery must not execute")
	assert.Equal(t, []string{models.JobStatusProcessing, models.JobStatusCompleted}, recorder.recorded())
}

func TestFetchReadyJobs(t *testing.T) {
	jobs := []response.PrintJobResponseDTO{
		{ID: 1, DocumentName: "a.pdf", Status: models.JobStatusReady},
		{ID: 2, DocumentName: "b.pdf", Status: models.JobStatusReady},
	}
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		require.Equal(t, "/api/print-jobs/ready", req.URL.Path)
		_ = json.NewEncoder(w).Encode(jobs)
	}))
	defer server.Close()

	a := newTestAgent(server.URL, &fakeRenderer{})
	got, err := a.fetchReadyJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, "Bearer test-key", gotAuth)
}
