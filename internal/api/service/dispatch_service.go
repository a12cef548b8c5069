package service

import (
	"errors"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"printhub"
	"printhub/internal/api/handler/mapper"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
	"printhub/internal/api/repo"
)

var (
	ErrPrinterNotFound = errors.New("printer not found")
	ErrPrinterOffline  = errors.New("printer is offline")
)

// PrinterSource resolves submission targets.
type PrinterSource interface {
	FindByID(id uint) (models.Printer, error)
	FindByUniqueID(uniqueID string) (models.Printer, error)
}

// JobStore persists submitted jobs.
type JobStore interface {
	Create(job *models.PrintJob) error
	Update(job *models.PrintJob) error
}

// Notifier pushes a ready job to its owner's live connection. A false return
// means no connection; the job waits for pickup.
type Notifier interface {
	NotifyJobReady(userID uint, job any) bool
}

// DispatchService owns print submission: resolve the printer, build the
// render payload, persist the job as ready, then push it best effort.
type DispatchService struct {
	printers  PrinterSource
	jobs      JobStore
	notifier  Notifier
	jobMapper mapper.JobMapper
	logger    zerolog.Logger
}

func NewDispatchService(notifier Notifier) *DispatchService {
	return &DispatchService{
		printers: repo.NewPrinterRepository(),
		jobs:     repo.NewPrintJobRepository(),
		notifier: notifier,
		logger:   printhub.Logger,
	}
}

// SubmitByUniqueID handles submissions addressed by printer unique ID.
func (slf *DispatchService) SubmitByUniqueID(user models.User, req request.PrintDTO) (*response.SubmitJobResponseDTO, error) {
	printer, err := slf.resolveByUniqueID(req.PrinterID)
	if err != nil {
		return nil, err
	}

	job := models.PrintJob{
		DocumentName: documentNameFromURL(req.DocumentURL),
		DocumentURL:  req.DocumentURL,
		PrinterID:    printer.ID,
		UserID:       user.ID,
		Status:       models.JobStatusPending,
		Copies:       normalizeCopies(req.Options.Copies),
		Duplex:       req.Options.Duplex,
		Orientation:  normalizeOrientation(req.Options.Orientation),
	}

	return slf.dispatch(user, printer, &job, func(jobID uint) (string, error) {
		return buildURLPayload(printer.Name, jobID, job.DocumentName, job.DocumentURL,
			job.Copies, job.Duplex, job.Orientation, nil, nil)
	})
}

// SubmitByID handles submissions addressed by numeric printer ID with the
// full render option set.
func (slf *DispatchService) SubmitByID(user models.User, req request.PrintByIDDTO) (*response.SubmitJobResponseDTO, error) {
	printer, err := slf.resolveByID(req.PrinterID)
	if err != nil {
		return nil, err
	}

	documentName := req.DocumentName
	if documentName == "" {
		documentName = documentNameFromURL(req.DocumentURL)
	}

	job := models.PrintJob{
		DocumentName: documentName,
		DocumentURL:  req.DocumentURL,
		PrinterID:    printer.ID,
		UserID:       user.ID,
		Status:       models.JobStatusPending,
		Copies:       normalizeCopies(req.Copies),
		Duplex:       req.Duplex,
		Orientation:  normalizeOrientation(req.Orientation),
	}

	return slf.dispatch(user, printer, &job, func(jobID uint) (string, error) {
		return buildURLPayload(printer.Name, jobID, job.DocumentName, job.DocumentURL,
			job.Copies, job.Duplex, job.Orientation, req.Margins, req.Options)
	})
}

// SubmitBase64 handles inline documents, including raw printer commands.
func (slf *DispatchService) SubmitBase64(user models.User, req request.PrintBase64DTO) (*response.SubmitJobResponseDTO, error) {
	printer, err := slf.resolveByID(req.PrinterID)
	if err != nil {
		return nil, err
	}

	job := models.PrintJob{
		DocumentName: req.DocumentName,
		DocumentURL:  "inline:base64",
		PrinterID:    printer.ID,
		UserID:       user.ID,
		Status:       models.JobStatusPending,
		Copies:       normalizeCopies(req.Copies),
		Duplex:       req.Duplex,
		Orientation:  normalizeOrientation(req.Orientation),
	}

	return slf.dispatch(user, printer, &job, func(jobID uint) (string, error) {
		return buildBase64Payload(printer.Name, jobID, req)
	})
}

// dispatch persists the job, attaches its payload, marks it ready and pushes
// it to the owner when a live connection exists. Delivery absence is a
// normal branch; the job stays visible to the pickup endpoint either way.
func (slf *DispatchService) dispatch(user models.User, printer models.Printer, job *models.PrintJob, buildPayload func(jobID uint) (string, error)) (*response.SubmitJobResponseDTO, error) {
	if err := slf.jobs.Create(job); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to create print job")
		return nil, err
	}

	payload, err := buildPayload(job.ID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("jobId", job.ID).Msg("Failed to build print payload")
		// The job is already persisted; fail it so it does not linger in
		// pending with nothing ever delivering it.
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
		now := time.Now()
		job.CompletedAt = &now
		if uerr := slf.jobs.Update(job); uerr != nil {
			slf.logger.Error().Err(uerr).Uint("jobId", job.ID).Msg("Failed to mark job failed")
		}
		return nil, err
	}

	job.Payload = payload
	job.Status = models.JobStatusReady
	if err := slf.jobs.Update(job); err != nil {
		slf.logger.Error().Err(err).Uint("jobId", job.ID).Msg("Failed to mark job ready")
		return nil, err
	}

	if slf.notifier != nil {
		if slf.notifier.NotifyJobReady(user.ID, slf.jobMapper.EntityToJobResponse(*job)) {
			slf.logger.Info().
				Uint("jobId", job.ID).
				Uint("userId", user.ID).
				Str("printer", printer.Name).
				Msg("Job pushed to connected agent")
		} else {
			slf.logger.Info().
				Uint("jobId", job.ID).
				Uint("userId", user.ID).
				Msg("No live connection, job left for pickup")
		}
	}

	return &response.SubmitJobResponseDTO{JobID: job.ID, Status: job.Status}, nil
}

func (slf *DispatchService) resolveByUniqueID(uniqueID string) (models.Printer, error) {
	printer, err := slf.printers.FindByUniqueID(uniqueID)
	return slf.checkPrinter(printer, err)
}

func (slf *DispatchService) resolveByID(id uint) (models.Printer, error) {
	printer, err := slf.printers.FindByID(id)
	return slf.checkPrinter(printer, err)
}

func (slf *DispatchService) checkPrinter(printer models.Printer, err error) (models.Printer, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Printer{}, ErrPrinterNotFound
		}
		slf.logger.Error().Err(err).Msg("Failed to resolve printer")
		return models.Printer{}, err
	}
	if printer.Status != models.PrinterStatusOnline {
		return models.Printer{}, ErrPrinterOffline
	}
	return printer, nil
}

func documentNameFromURL(documentURL string) string {
	name := path.Base(strings.TrimSuffix(documentURL, "/"))
	if name == "" || name == "." || name == "/" {
		return "document.pdf"
	}
	if idx := strings.IndexAny(name, "?#"); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return "document.pdf"
	}
	return name
}

func normalizeCopies(copies int) int {
	if copies < 1 {
		return 1
	}
	return copies
}

func normalizeOrientation(orientation string) string {
	if orientation == "" {
		return "portrait"
	}
	return orientation
}
