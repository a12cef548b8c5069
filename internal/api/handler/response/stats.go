package response

type StatsResponseDTO struct {
	TotalJobs      int64 `json:"totalJobs"`
	PendingJobs    int64 `json:"pendingJobs"`
	ReadyJobs      int64 `json:"readyJobs"`
	ProcessingJobs int64 `json:"processingJobs"`
	CompletedJobs  int64 `json:"completedJobs"`
	FailedJobs     int64 `json:"failedJobs"`
	PrintersOnline int64 `json:"printersOnline"`
	ActiveAgents   int   `json:"activeAgents"`
}
