package service

import (
	"github.com/rs/zerolog"

	"printhub"
	"printhub/internal/api/handler/mapper"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
	"printhub/internal/api/repo"
)

// AgentCounter reports how many agent connections are registered.
type AgentCounter interface {
	Count() int
}

type StatsService struct {
	jobRepo     *repo.PrintJobRepository
	printerRepo *repo.PrinterRepository
	agents      AgentCounter
	jobMapper   mapper.JobMapper
	logger      zerolog.Logger
}

func NewStatsService(agents AgentCounter) *StatsService {
	return &StatsService{
		jobRepo:     repo.NewPrintJobRepository(),
		printerRepo: repo.NewPrinterRepository(),
		agents:      agents,
		logger:      printhub.Logger,
	}
}

func (slf *StatsService) GetStats() (response.StatsResponseDTO, error) {
	stats := response.StatsResponseDTO{}

	counts := map[string]*int64{
		models.JobStatusPending:    &stats.PendingJobs,
		models.JobStatusReady:      &stats.ReadyJobs,
		models.JobStatusProcessing: &stats.ProcessingJobs,
		models.JobStatusCompleted:  &stats.CompletedJobs,
		models.JobStatusFailed:     &stats.FailedJobs,
	}
	for status, dest := range counts {
		count, err := slf.jobRepo.CountByStatus(status)
		if err != nil {
			slf.logger.Error().Err(err).Str("status", status).Msg("Failed to count jobs")
			return response.StatsResponseDTO{}, err
		}
		*dest = count
		stats.TotalJobs += count
	}

	online, err := slf.printerRepo.CountByStatus(models.PrinterStatusOnline)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to count online printers")
		return response.StatsResponseDTO{}, err
	}
	stats.PrintersOnline = online

	if slf.agents != nil {
		stats.ActiveAgents = slf.agents.Count()
	}
	return stats, nil
}

func (slf *StatsService) GetRecentActivity(limit int) ([]response.RecentActivityDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	jobs, err := slf.jobRepo.GetRecent(limit)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to load recent activity")
		return nil, err
	}

	out := make([]response.RecentActivityDTO, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, slf.jobMapper.EntityToRecentActivity(job))
	}
	return out, nil
}
