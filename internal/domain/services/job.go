package services

import (
	"context"

	"applytrack/internal/domain/models"
)

// JobService handles applications and their status timelines
type JobService interface {
	// ListJobs returns the user's jobs (optionally one folder's), each with its timeline.
	// Backend failures are logged and yield an empty list.
	ListJobs(ctx context.Context, userID string, folderID *string) ([]models.Job, error)

	// QueryJobs runs search, status filter, sort and pagination over a folder's jobs.
	// Parameters left nil fall back to the user's stored session.
	QueryJobs(ctx context.Context, req *QueryJobsRequest) (*JobPage, error)

	// GetJob retrieves one job with its timeline
	GetJob(ctx context.Context, id, userID string) (*models.Job, error)

	// CreateJob validates and stores a new application with its initial timeline
	CreateJob(ctx context.Context, req *CreateJobRequest) (*models.Job, error)

	// UpdateJob applies a partial update, appending a status event when the status changes
	UpdateJob(ctx context.Context, id string, req *UpdateJobRequest) (*models.Job, error)

	// DeleteJob removes a job and its timeline
	DeleteJob(ctx context.Context, id, userID string) error

	// ClearAll removes every job and event the user owns, atomically
	ClearAll(ctx context.Context, userID string) (*ClearResult, error)
}

// CreateJobRequest represents a new application
type CreateJobRequest struct {
	UserID             string   `json:"-"`
	FolderID           *string  `json:"folder_id"`
	Role               string   `json:"role"`
	Company            string   `json:"company"`
	Location           string   `json:"location"`
	ExperienceRequired string   `json:"experience_required"`
	Skills             []string `json:"skills"`
	Remote             bool     `json:"remote"`
	Notes              string   `json:"notes"`
	Status             string   `json:"status"`       // blank = Applied
	DateApplied        string   `json:"date_applied"` // blank = today
	JobPostingURL      *string  `json:"job_posting_url"`
}

// UpdateJobRequest represents a partial update; nil fields are left untouched
type UpdateJobRequest struct {
	UserID             string           `json:"-"`
	FolderID           Optional[string] `json:"-"` // null = unfiled
	Role               *string          `json:"role"`
	Company            *string          `json:"company"`
	Location           *string          `json:"location"`
	ExperienceRequired *string          `json:"experience_required"`
	Skills             *[]string        `json:"skills"`
	Remote             *bool            `json:"remote"`
	Notes              *string          `json:"notes"`
	Status             *string          `json:"status"`
	StatusNote         *string          `json:"status_note"` // recorded on the appended event when the status changes
	DateApplied        *string          `json:"date_applied"`
	JobPostingURL      Optional[string] `json:"-"`
}

// QueryJobsRequest selects a page of jobs. Nil fields fall back to the session.
type QueryJobsRequest struct {
	UserID     string
	FolderID   Optional[string] // absent = session folder; null = all folders
	SearchTerm *string
	Status     *string
	PageSize   *models.PageSize
	Page       *int
	Sort       string // "last_updated" (default), "date_applied", "company"
}

// JobPage is one page of query results plus the pagination envelope
type JobPage struct {
	Items      []models.Job `json:"items"`
	Page       int          `json:"page"`
	PageSize   string       `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	TotalItems int          `json:"total_items"`
	HasMore    bool         `json:"has_more"`
}

// ClearResult reports what ClearAll removed
type ClearResult struct {
	Jobs   int `json:"jobs_deleted"`
	Events int `json:"events_deleted"`
}
