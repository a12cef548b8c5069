package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"printhub/internal/api/handler/request"
	"printhub/internal/api/models"
)

type fakePrinters struct {
	printers []models.Printer
}

func (f *fakePrinters) FindByID(id uint) (models.Printer, error) {
	for _, p := range f.printers {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Printer{}, gorm.ErrRecordNotFound
}

func (f *fakePrinters) FindByUniqueID(uniqueID string) (models.Printer, error) {
	for _, p := range f.printers {
		if p.UniqueID == uniqueID {
			return p, nil
		}
	}
	return models.Printer{}, gorm.ErrRecordNotFound
}

type fakeJobStore struct {
	nextID  uint
	created []models.PrintJob
	updated []models.PrintJob
}

func (f *fakeJobStore) Create(job *models.PrintJob) error {
	f.nextID++
	job.ID = f.nextID
	f.created = append(f.created, *job)
	return nil
}

func (f *fakeJobStore) Update(job *models.PrintJob) error {
	f.updated = append(f.updated, *job)
	return nil
}

type fakeNotifier struct {
	connected bool
	pushed    []any
}

func (f *fakeNotifier) NotifyJobReady(userID uint, job any) bool {
	if !f.connected {
		return false
	}
	f.pushed = append(f.pushed, job)
	return true
}

func newTestDispatch(printers []models.Printer, connected bool) (*DispatchService, *fakeJobStore, *fakeNotifier) {
	jobs := &fakeJobStore{}
	notifier := &fakeNotifier{connected: connected}
	svc := &DispatchService{
		printers: &fakePrinters{printers: printers},
		jobs:     jobs,
		notifier: notifier,
		logger:   zerolog.Nop(),
	}
	return svc, jobs, notifier
}

func onlinePrinter() models.Printer {
	return models.Printer{ID: 1, Name: "Front Desk", UniqueID: "printer-001", Status: models.PrinterStatusOnline}
}

func offlinePrinter() models.Printer {
	return models.Printer{ID: 2, Name: "Warehouse", UniqueID: "printer-002", Status: models.PrinterStatusOffline}
}

func TestDispatch_OfflinePrinterRejected(t *testing.T) {
	svc, jobs, _ := newTestDispatch([]models.Printer{offlinePrinter()}, true)

	_, err := svc.SubmitByUniqueID(models.User{ID: 9}, request.PrintDTO{
		PrinterID:   "printer-002",
		DocumentURL: "https://docs.example.com/invoice.pdf",
	})

	require.ErrorIs(t, err, ErrPrinterOffline)
	assert.Empty(t, jobs.created, "no job should be persisted for an offline printer")
}

func TestDispatch_UnknownPrinterRejected(t *testing.T) {
	svc, _, _ := newTestDispatch(nil, true)

	_, err := svc.SubmitByUniqueID(models.User{ID: 9}, request.PrintDTO{
		PrinterID:   "nope",
		DocumentURL: "https://docs.example.com/invoice.pdf",
	})

	require.ErrorIs(t, err, ErrPrinterNotFound)
}

func TestDispatch_PushesToConnectedAgent(t *testing.T) {
	svc, jobs, notifier := newTestDispatch([]models.Printer{onlinePrinter()}, true)

	result, err := svc.SubmitByUniqueID(models.User{ID: 9}, request.PrintDTO{
		PrinterID:   "printer-001",
		DocumentURL: "https://docs.example.com/invoice.pdf",
		Options:     request.PrintOptions{Copies: 2, Duplex: true},
	})

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusReady, result.Status)
	assert.Equal(t, uint(1), result.JobID)

	require.Len(t, jobs.updated, 1)
	final := jobs.updated[0]
	assert.Equal(t, models.JobStatusReady, final.Status)
	assert.Equal(t, "invoice.pdf", final.DocumentName)
	assert.NotEmpty(t, final.Payload)

	require.Len(t, notifier.pushed, 1, "job should be pushed to the live connection")
}

func TestDispatch_NoConnectionLeavesJobForPickup(t *testing.T) {
	svc, jobs, notifier := newTestDispatch([]models.Printer{onlinePrinter()}, false)

	result, err := svc.SubmitByUniqueID(models.User{ID: 9}, request.PrintDTO{
		PrinterID:   "printer-001",
		DocumentURL: "https://docs.example.com/invoice.pdf",
	})

	require.NoError(t, err, "missing connection is a normal branch, not an error")
	assert.Equal(t, models.JobStatusReady, result.Status)
	assert.Empty(t, notifier.pushed)

	require.Len(t, jobs.updated, 1)
	assert.Equal(t, models.JobStatusReady, jobs.updated[0].Status)
}

func TestDispatch_PayloadFailureMarksJobFailed(t *testing.T) {
	svc, jobs, notifier := newTestDispatch([]models.Printer{onlinePrinter()}, true)

	job := models.PrintJob{
		UserID:       9,
		PrinterID:    1,
		DocumentName: "invoice.pdf",
		Status:       models.JobStatusPending,
	}
	_, err := svc.dispatch(models.User{ID: 9}, onlinePrinter(), &job, func(uint) (string, error) {
		return "", errors.New("document template missing")
	})

	require.Error(t, err)
	require.Len(t, jobs.updated, 1, "the persisted job must not stay pending")
	final := jobs.updated[0]
	assert.Equal(t, models.JobStatusFailed, final.Status)
	assert.Equal(t, "document template missing", final.Error)
	assert.NotNil(t, final.CompletedAt)
	assert.Empty(t, notifier.pushed)
}

func TestDispatch_SubmitByID_UsesFullOptions(t *testing.T) {
	svc, jobs, _ := newTestDispatch([]models.Printer{onlinePrinter()}, false)

	density := 300.0
	_, err := svc.SubmitByID(models.User{ID: 9}, request.PrintByIDDTO{
		PrinterID:    1,
		DocumentURL:  "https://docs.example.com/label.pdf",
		DocumentName: "shipping label",
		Copies:       3,
		Orientation:  "landscape",
		Options: &request.RenderOptions{
			ColorType: "grayscale",
			Density:   &density,
		},
	})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(jobs.updated[0].Payload), &payload))

	config := payload["config"].(map[string]any)
	assert.Equal(t, "grayscale", config["colorType"])
	assert.Equal(t, 300.0, config["density"])

	data := payload["data"].([]any)[0].(map[string]any)
	options := data["options"].(map[string]any)
	assert.Equal(t, "landscape", options["orientation"])
	assert.Equal(t, 3.0, options["copies"])
}

func TestDispatch_SubmitBase64_Raw(t *testing.T) {
	svc, jobs, _ := newTestDispatch([]models.Printer{onlinePrinter()}, false)

	_, err := svc.SubmitBase64(models.User{ID: 9}, request.PrintBase64DTO{
		PrinterID:      1,
		DocumentBase64: "G0BIZWxsbw==",
		DocumentName:   "fiscal ticket",
		Type:           "raw",
	})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(jobs.updated[0].Payload), &payload))

	data := payload["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "raw", data["type"])
	options := data["options"].(map[string]any)
	assert.Equal(t, "ESCPOS", options["language"])
	assert.Equal(t, "double", options["dotDensity"])

	config := payload["config"].(map[string]any)
	_, hasMargins := config["margins"]
	assert.False(t, hasMargins, "raw commands take no margins")
	assert.Equal(t, false, config["scaleContent"])
}
