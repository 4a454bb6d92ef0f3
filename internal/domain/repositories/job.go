package repositories

import (
	"context"

	"applytrack/internal/domain/models"
)

// JobRepository defines data access operations for applications and their
// status timelines. Every method is scoped to the owning user.
type JobRepository interface {
	// Create inserts the job row together with job.Timeline.
	// IDs and event job IDs are assigned by the repository.
	Create(ctx context.Context, job *models.Job) error

	// GetByID retrieves a job with its timeline (oldest event first)
	GetByID(ctx context.Context, id, userID string) (*models.Job, error)

	// List returns the user's jobs with timelines. A nil folderID lists every job.
	// No ordering is guaranteed.
	List(ctx context.Context, userID string, folderID *string) ([]models.Job, error)

	// Update saves every mutable field of the job row. The timeline is not touched.
	Update(ctx context.Context, job *models.Job) error

	// AppendEvent adds one event to the timeline of a job owned by userID
	AppendEvent(ctx context.Context, userID string, event *models.StatusEvent) error

	// Delete removes a job and its events
	Delete(ctx context.Context, id, userID string) error

	// DeleteAllByUser removes every job and event the user owns
	DeleteAllByUser(ctx context.Context, userID string) (jobs int, events int, err error)

	// CountByFolder returns how many jobs are filed under each folder ID
	CountByFolder(ctx context.Context, userID string) (map[string]int, error)

	// ReassignFolder moves every job in fromID to toID (nil = unfiled)
	ReassignFolder(ctx context.Context, userID, fromID string, toID *string) (int, error)
}
