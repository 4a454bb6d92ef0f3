package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"applytrack/internal/config"
	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
	"applytrack/internal/domain/services"
	"applytrack/internal/service/stats"
)

// Defaults for the dashboard when the request leaves them at zero
const (
	DefaultStatsMonths = 6
	DefaultStatsDays   = 30
	DefaultStatsTop    = 5
)

// statsService implements services.StatsService
type statsService struct {
	jobs     services.JobService
	sessions *sessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewStatsService creates a stats service. Job reads go through the job
// service so they degrade the same way the list view does.
func NewStatsService(
	jobs services.JobService,
	prefsRepo repositories.UserPreferencesRepository,
	logger *slog.Logger,
) services.StatsService {
	return &statsService{
		jobs:     jobs,
		sessions: newSessionStore(prefsRepo, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Summarize computes the dashboard for the requested (or selected) folder
func (s *statsService) Summarize(ctx context.Context, req *services.StatsRequest) (*models.StatsSummary, error) {
	opts, err := statsOptions(req)
	if err != nil {
		return nil, err
	}

	folderID, _ := s.sessions.selectedFolder(ctx, req.UserID, req.FolderID.Value, req.FolderID.Present)
	jobs, err := s.jobs.ListJobs(ctx, req.UserID, folderID)
	if err != nil {
		return nil, err
	}

	summary := stats.Summarize(jobs, opts, s.now())
	s.logger.Debug("stats computed",
		"user_id", req.UserID,
		"folder_id", folderID,
		"total", summary.Total,
	)
	return summary, nil
}

func statsOptions(req *services.StatsRequest) (stats.Options, error) {
	opts := stats.Options{Months: req.Months, Days: req.Days, Top: req.Top}
	if opts.Months == 0 {
		opts.Months = DefaultStatsMonths
	}
	if opts.Days == 0 {
		opts.Days = DefaultStatsDays
	}
	if opts.Top == 0 {
		opts.Top = DefaultStatsTop
	}

	switch {
	case opts.Months < 0 || opts.Months > config.MaxHistogramMonths:
		return opts, &domain.ValidationError{Message: fmt.Sprintf("months must be between 1 and %d", config.MaxHistogramMonths), Field: "months"}
	case opts.Days < 0 || opts.Days > config.MaxHistogramDays:
		return opts, &domain.ValidationError{Message: fmt.Sprintf("days must be between 1 and %d", config.MaxHistogramDays), Field: "days"}
	case opts.Top < 0 || opts.Top > config.MaxTopN:
		return opts, &domain.ValidationError{Message: fmt.Sprintf("top must be between 1 and %d", config.MaxTopN), Field: "top"}
	}
	return opts, nil
}
