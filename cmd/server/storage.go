package main

import (
	"context"
	"fmt"
	"log/slog"

	"applytrack/internal/config"
	"applytrack/internal/domain/repositories"
	"applytrack/internal/repository/memory"
	"applytrack/internal/repository/postgres"
)

// storage is the set of repositories behind one backend
type storage struct {
	folders   repositories.FolderRepository
	jobs      repositories.JobRepository
	prefs     repositories.UserPreferencesRepository
	txManager repositories.TransactionManager
	health    repositories.HealthChecker
	close     func()
}

// openStorage selects the backend named by STORAGE_BACKEND
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &storage{
			folders:   memory.NewFolderRepository(store),
			jobs:      memory.NewJobRepository(store),
			prefs:     memory.NewUserPreferencesRepository(store),
			txManager: memory.NewTransactionManager(store),
			health:    memory.NewHealthChecker(store),
			close:     func() {},
		}, nil

	case "postgres":
		if cfg.SupabaseDBURL == "" {
			return nil, fmt.Errorf("SUPABASE_DB_URL is required for the postgres backend")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
		if err != nil {
			return nil, fmt.Errorf("create connection pool: %w", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, repoConfig); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("schema migrated", "table_prefix", cfg.TablePrefix)
		}

		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
		return &storage{
			folders:   postgres.NewFolderRepository(repoConfig),
			jobs:      postgres.NewJobRepository(repoConfig),
			prefs:     postgres.NewUserPreferencesRepository(repoConfig),
			txManager: postgres.NewTransactionManager(pool, logger),
			health:    postgres.NewHealthChecker(repoConfig),
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want postgres or memory)", cfg.StorageBackend)
	}
}
