package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFolderRepository implements repositories.FolderRepository
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const folderColumns = `id, user_id, name, description, color, is_active, created_at, updated_at`

func scanFolder(row interface{ Scan(...any) error }, folder *models.Folder) error {
	return row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.Description,
		&folder.Color,
		&folder.IsActive,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
}

// Create inserts a folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, color, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.UserID,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.IsActive,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return storageError("create folder", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	executor := GetExecutor(ctx, r.pool)
	err := scanFolder(executor.QueryRow(ctx, query, id, userID), &folder)
	if err != nil {
		if isPgNoRowsError(err) || isPgInvalidTextError(err) {
			return nil, folderNotFound(id)
		}
		return nil, storageError("get folder", err)
	}

	return &folder, nil
}

// List retrieves all folders for a user, ordered by created_at DESC
func (r *PostgresFolderRepository) List(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, storageError("list folders", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, storageError("scan folder", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("iterate folders", err)
	}

	return folders, nil
}

// Update saves the mutable folder fields
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, color = $3, is_active = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.IsActive,
		folder.UpdatedAt,
		folder.ID,
		folder.UserID,
	)
	if err != nil {
		if isPgInvalidTextError(err) {
			return folderNotFound(folder.ID)
		}
		return storageError("update folder", err)
	}

	if result.RowsAffected() == 0 {
		return folderNotFound(folder.ID)
	}

	return nil
}

// Delete deletes a folder. The jobs FK is ON DELETE RESTRICT, so a folder that
// still has applications is reported as a conflict.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "folder contains applications; move or delete them first",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
		if isPgInvalidTextError(err) {
			return folderNotFound(id)
		}
		return storageError("delete folder", err)
	}

	if result.RowsAffected() == 0 {
		return folderNotFound(id)
	}

	return nil
}

func folderNotFound(id string) error {
	return &domain.NotFoundError{
		Message:      fmt.Sprintf("folder %s not found", id),
		ResourceType: "folder",
		ResourceID:   id,
	}
}
