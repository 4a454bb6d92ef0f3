package postgres

import (
	"context"
	"fmt"

	"applytrack/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresHealthChecker reads one row from the folders table.
type PostgresHealthChecker struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewHealthChecker creates a storage health checker
func NewHealthChecker(config *RepositoryConfig) repositories.HealthChecker {
	return &PostgresHealthChecker{pool: config.Pool, tables: config.Tables}
}

// Check runs a single read; a missing row is fine, a failed query is not
func (h *PostgresHealthChecker) Check(ctx context.Context) error {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM (SELECT 1 FROM %s LIMIT 1) t`, h.tables.Folders)

	var n int
	if err := h.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return storageError("health check", err)
	}
	return nil
}
