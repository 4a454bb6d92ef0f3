package services

import (
	"context"

	"applytrack/internal/domain/models"
)

// StatsService summarizes a folder's applications for the dashboard
type StatsService interface {
	Summarize(ctx context.Context, req *StatsRequest) (*models.StatsSummary, error)
}

// StatsRequest scopes and sizes a summary. Zero values mean defaults.
type StatsRequest struct {
	UserID   string
	FolderID Optional[string] // absent = session folder; null = all folders
	Months   int
	Days     int
	Top      int
}
