package mapper

import (
	"encoding/json"

	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
)

type JobMapper struct{}

func (JobMapper) EntityToJobResponse(job models.PrintJob) response.PrintJobResponseDTO {
	return response.PrintJobResponseDTO{
		ID:           job.ID,
		DocumentName: job.DocumentName,
		DocumentURL:  job.DocumentURL,
		PrinterID:    job.PrinterID,
		UserID:       job.UserID,
		Status:       job.Status,
		Copies:       job.Copies,
		Duplex:       job.Duplex,
		Orientation:  job.Orientation,
		Payload:      json.RawMessage(job.Payload),
		Error:        job.Error,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

func (m JobMapper) EntitiesToJobResponses(jobs []models.PrintJob) []response.PrintJobResponseDTO {
	out := make([]response.PrintJobResponseDTO, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, m.EntityToJobResponse(job))
	}
	return out
}

func (JobMapper) EntityToRecentActivity(job models.PrintJob) response.RecentActivityDTO {
	activity := response.RecentActivityDTO{
		JobID:        job.ID,
		DocumentName: job.DocumentName,
		Status:       job.Status,
		CreatedAt:    job.CreatedAt,
	}
	if job.Printer != nil {
		activity.PrinterName = job.Printer.Name
	}
	if job.User != nil {
		activity.Username = job.User.Username
	}
	return activity
}
