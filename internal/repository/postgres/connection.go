package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"applytrack/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Folders         string
	Jobs            string
	StatusEvents    string
	UserPreferences string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:         fmt.Sprintf("%sfolders", prefix),
		Jobs:            fmt.Sprintf("%sjobs", prefix),
		StatusEvents:    fmt.Sprintf("%sstatus_events", prefix),
		UserPreferences: fmt.Sprintf("%suser_preferences", prefix),
	}
}

// CreateConnectionPool opens a pgx pool and pings it.
//
// Supabase's transaction pooler (port 6543) runs PgBouncer, which cannot hold
// prepared statements. On that port the pool switches to QueryExecModeCacheDescribe,
// which keeps the extended protocol (needed to encode JSONB maps and TEXT[])
// without preparing named statements. An explicit default_query_exec_mode in
// the connection string wins over this detection.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches the
// server, so each environment caches its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// Repositories call it for every statement so they join an outer ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
