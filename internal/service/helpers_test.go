package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
	"applytrack/internal/repository/memory"
	"applytrack/internal/service/changefeed"
)

const testUser = "user-1"

type testServices struct {
	store   *memory.Store
	feed    *changefeed.Broker
	folders services.FolderService
	jobs    services.JobService
	session services.SessionService
	stats   services.StatsService
	diag    services.DiagnosticsService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore()
	folderRepo := memory.NewFolderRepository(store)
	jobRepo := memory.NewJobRepository(store)
	prefsRepo := memory.NewUserPreferencesRepository(store)
	txManager := memory.NewTransactionManager(store)
	feed := changefeed.NewBroker(logger)

	jobs := NewJobService(jobRepo, folderRepo, prefsRepo, txManager, feed, logger)
	return &testServices{
		store:   store,
		feed:    feed,
		folders: NewFolderService(folderRepo, jobRepo, prefsRepo, txManager, feed, logger),
		jobs:    jobs,
		session: NewSessionService(folderRepo, prefsRepo, logger),
		stats:   NewStatsService(jobs, prefsRepo, logger),
		diag:    NewDiagnosticsService(memory.NewHealthChecker(store), logger),
	}
}

func (ts *testServices) createFolder(t *testing.T, name string) *models.Folder {
	t.Helper()
	folder, err := ts.folders.CreateFolder(context.Background(), &services.CreateFolderRequest{
		UserID:   testUser,
		Name:     name,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateFolder(%q) error = %v", name, err)
	}
	// keep created_at strictly increasing so newest-first order is deterministic
	time.Sleep(time.Millisecond)
	return folder
}

func (ts *testServices) createJob(t *testing.T, folderID, role, company, status string) *models.Job {
	t.Helper()
	job, err := ts.jobs.CreateJob(context.Background(), &services.CreateJobRequest{
		UserID:   testUser,
		FolderID: &folderID,
		Role:     role,
		Company:  company,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("CreateJob(%q, %q) error = %v", role, company, err)
	}
	return job
}

func strPtr(s string) *string { return &s }
