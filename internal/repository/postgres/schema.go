package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the tables and indexes when they do not exist yet.
// It is idempotent and runs in one transaction.
func Migrate(ctx context.Context, config *RepositoryConfig) error {
	t := config.Tables
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			color VARCHAR(7) NOT NULL DEFAULT '#3B82F6',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_idx ON %s (user_id, created_at DESC)`, t.Folders, t.Folders),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			folder_id UUID REFERENCES %s(id) ON DELETE RESTRICT,
			role TEXT NOT NULL,
			company TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			experience_required TEXT NOT NULL DEFAULT 'Not specified',
			skills TEXT[] NOT NULL DEFAULT '{}',
			remote BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			date_applied DATE NOT NULL,
			had_interview BOOLEAN NOT NULL DEFAULT FALSE,
			job_posting_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Jobs, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_folder_idx ON %s (user_id, folder_id)`, t.Jobs, t.Jobs),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			seq BIGINT GENERATED ALWAYS AS IDENTITY,
			job_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			note TEXT
		)`, t.StatusEvents, t.Jobs),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_job_idx ON %s (job_id, timestamp, seq)`, t.StatusEvents, t.StatusEvents),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			user_id TEXT PRIMARY KEY,
			preferences JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.UserPreferences),
	}

	tx, err := config.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	config.Logger.Info("schema migrated",
		"folders", t.Folders,
		"jobs", t.Jobs,
		"status_events", t.StatusEvents,
	)
	return nil
}

// DropAll removes every table for the configured prefix. Used by the reset script.
func DropAll(ctx context.Context, config *RepositoryConfig) error {
	t := config.Tables
	for _, table := range []string{t.StatusEvents, t.Jobs, t.Folders, t.UserPreferences} {
		if _, err := config.Pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
