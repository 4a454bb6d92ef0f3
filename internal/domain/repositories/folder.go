package repositories

import (
	"context"

	"applytrack/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every method is scoped to the owning user.
type FolderRepository interface {
	// Create inserts a folder and fills in its ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder, returning domain.ErrNotFound if it does not exist
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)

	// List returns the user's folders, newest first
	List(ctx context.Context, userID string) ([]models.Folder, error)

	// Update saves name, description, color and is_active
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder. Callers check for filed jobs first.
	Delete(ctx context.Context, id, userID string) error
}
