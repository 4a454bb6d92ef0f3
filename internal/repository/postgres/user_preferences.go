package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserPreferencesRepository implements the UserPreferencesRepository interface
type PostgresUserPreferencesRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserPreferencesRepository creates a new PostgresUserPreferencesRepository
func NewUserPreferencesRepository(config *RepositoryConfig) repositories.UserPreferencesRepository {
	return &PostgresUserPreferencesRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID returns nil, nil when the user has no row yet
func (r *PostgresUserPreferencesRepository) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	query := fmt.Sprintf(`
		SELECT user_id, preferences, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.UserPreferences)

	var prefs models.UserPreferences
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.Preferences,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, storageError("get user preferences", err)
	}

	return &prefs, nil
}

// Upsert creates or replaces the preferences row
func (r *PostgresUserPreferencesRepository) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = EXCLUDED.preferences,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at
	`, r.tables.UserPreferences)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		prefs.UserID,
		prefs.Preferences,
		prefs.CreatedAt,
		prefs.UpdatedAt,
	).Scan(&prefs.CreatedAt)
	if err != nil {
		return storageError("upsert user preferences", err)
	}

	return nil
}
