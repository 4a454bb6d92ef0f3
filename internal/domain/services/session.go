package services

import (
	"context"

	"applytrack/internal/domain/models"
)

// SessionService reads and writes the per-user view state
type SessionService interface {
	// GetSession returns the stored session, repairing a selection that points
	// at a deleted folder
	GetSession(ctx context.Context, userID string) (*models.Session, error)

	// UpdateSession changes any subset of the session fields
	UpdateSession(ctx context.Context, req *UpdateSessionRequest) (*models.Session, error)
}

// UpdateSessionRequest represents a partial session update
type UpdateSessionRequest struct {
	UserID          string
	CurrentFolderID Optional[string]
	SearchTerm      *string
	StatusFilter    *string
	PageSize        *models.PageSize
	CurrentPage     *int
}
