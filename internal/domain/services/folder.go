package services

import (
	"context"

	"applytrack/internal/domain/models"
)

// FolderService manages folders (hiring seasons) and which one is selected
type FolderService interface {
	// ListFolders returns the user's folders, newest first, with job counts.
	// Backend failures are logged and yield an empty list.
	ListFolders(ctx context.Context, userID string) ([]models.FolderWithCount, error)

	// GetFolder retrieves one folder
	GetFolder(ctx context.Context, id, userID string) (*models.Folder, error)

	// CreateFolder creates a folder and selects it if nothing is selected yet
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// UpdateFolder changes any subset of name, description, color and is_active
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder removes an empty folder and repairs the selection
	DeleteFolder(ctx context.Context, id, userID string) error

	// EnsureDefaultFolder creates a season folder for users who have none,
	// otherwise returns the selected (or first) folder
	EnsureDefaultFolder(ctx context.Context, userID string) (*models.Folder, error)

	// MoveJobs reassigns every job in one folder to another folder or to unfiled
	MoveJobs(ctx context.Context, req *MoveJobsRequest) (int, error)

	// SelectFolder persists the selected folder (nil clears the selection)
	SelectFolder(ctx context.Context, userID string, folderID *string) (*models.Session, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID      string  `json:"-"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsActive    bool    `json:"is_active"`
}

// UpdateFolderRequest represents a partial folder update
type UpdateFolderRequest struct {
	UserID      string           `json:"-"`
	Name        *string          `json:"name"`
	Description Optional[string] `json:"-"`
	Color       *string          `json:"color"`
	IsActive    *bool            `json:"is_active"`
}

// MoveJobsRequest moves all jobs out of FromFolderID
type MoveJobsRequest struct {
	UserID       string
	FromFolderID string
	ToFolderID   *string // nil = unfiled
}
