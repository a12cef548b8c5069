package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"printhub"
	"printhub/internal/api/models"
	"printhub/internal/api/repo"
)

var (
	ErrJobNotFound   = errors.New("print job not found")
	ErrInvalidStatus = errors.New("invalid job status")
)

type JobService struct {
	jobRepo     *repo.PrintJobRepository
	printerRepo *repo.PrinterRepository
	logger      zerolog.Logger
}

func NewJobService() *JobService {
	return &JobService{
		jobRepo:     repo.NewPrintJobRepository(),
		printerRepo: repo.NewPrinterRepository(),
		logger:      printhub.Logger,
	}
}

func (slf *JobService) GetByID(id uint) (models.PrintJob, error) {
	job, err := slf.jobRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PrintJob{}, ErrJobNotFound
		}
		slf.logger.Error().Err(err).Uint("jobId", id).Msg("Failed to find job")
		return models.PrintJob{}, err
	}
	return job, nil
}

func (slf *JobService) GetAllForUser(userID uint) ([]models.PrintJob, error) {
	return slf.jobRepo.GetByUser(userID)
}

// GetReadyForUser lists the caller's jobs awaiting delivery. Reading them
// never mutates status, so agents can poll this endlessly.
func (slf *JobService) GetReadyForUser(userID uint) ([]models.PrintJob, error) {
	return slf.jobRepo.GetReadyByUser(userID)
}

// GetForPrinter lists the undelivered jobs targeting one printer.
func (slf *JobService) GetForPrinter(uniqueID string) ([]models.PrintJob, error) {
	printer, err := slf.printerRepo.FindByUniqueID(uniqueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrinterNotFound
		}
		slf.logger.Error().Err(err).Str("uniqueId", uniqueID).Msg("Failed to find printer")
		return nil, err
	}
	return slf.jobRepo.GetPendingByPrinter(printer.ID)
}

func (slf *JobService) GetRecent(limit int) ([]models.PrintJob, error) {
	if limit <= 0 {
		limit = 20
	}
	return slf.jobRepo.GetRecent(limit)
}

// UpdateStatus applies an agent-reported outcome. Re-applying the current
// status succeeds without observable change; leaving a terminal status is
// rejected.
func (slf *JobService) UpdateStatus(jobID uint, status string, errText string) (models.PrintJob, error) {
	job, err := slf.GetByID(jobID)
	if err != nil {
		return models.PrintJob{}, err
	}

	apply, err := validateStatusTransition(job.Status, status)
	if err != nil {
		return models.PrintJob{}, err
	}
	if !apply {
		return job, nil
	}

	job.Status = status
	switch status {
	case models.JobStatusCompleted:
		now := time.Now()
		job.CompletedAt = &now
		slf.stampPrinter(job.PrinterID, now)
	case models.JobStatusFailed:
		job.Error = errText
		now := time.Now()
		job.CompletedAt = &now
	}

	if err := slf.jobRepo.Update(&job); err != nil {
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Failed to update job status")
		return models.PrintJob{}, err
	}

	slf.logger.Info().
		Uint("jobId", jobID).
		Str("status", status).
		Msg("Job status updated")
	return job, nil
}

func (slf *JobService) Delete(jobID uint) error {
	if _, err := slf.GetByID(jobID); err != nil {
		return err
	}
	return slf.jobRepo.Delete(jobID)
}

func (slf *JobService) stampPrinter(printerID uint, at time.Time) {
	printer, err := slf.printerRepo.FindByID(printerID)
	if err != nil {
		slf.logger.Warn().Err(err).Uint("printerId", printerID).Msg("Could not stamp last print time")
		return
	}
	printer.LastPrintTime = &at
	if err := slf.printerRepo.Update(&printer); err != nil {
		slf.logger.Warn().Err(err).Uint("printerId", printerID).Msg("Could not stamp last print time")
	}
}

// validateStatusTransition decides whether a reported status may be applied
// to a job currently in the given status. apply is false when the update is
// an idempotent repeat.
func validateStatusTransition(current, requested string) (apply bool, err error) {
	switch requested {
	case models.JobStatusProcessing, models.JobStatusCompleted, models.JobStatusFailed:
	default:
		return false, ErrInvalidStatus
	}

	if current == requested {
		return false, nil
	}
	if models.IsTerminalJobStatus(current) {
		return false, ErrInvalidStatus
	}
	return true, nil
}
