package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
	"applytrack/internal/httputil"
	"applytrack/internal/repository/memory"
	"applytrack/internal/service"
	"applytrack/internal/service/changefeed"
	"applytrack/internal/service/posting"
)

const testUser = "user-1"

type fakeExtractor struct {
	result *models.PostingExtraction
	err    error
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(context.Context, string) (*models.PostingExtraction, error) {
	return f.result, f.err
}

type testEnv struct {
	store     *memory.Store
	feed      *changefeed.Broker
	extractor *fakeExtractor
	mux       *http.ServeMux
}

// newTestEnv wires real services over the memory backend
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore()
	folderRepo := memory.NewFolderRepository(store)
	jobRepo := memory.NewJobRepository(store)
	prefsRepo := memory.NewUserPreferencesRepository(store)
	txManager := memory.NewTransactionManager(store)
	feed := changefeed.NewBroker(logger)

	folderService := service.NewFolderService(folderRepo, jobRepo, prefsRepo, txManager, feed, logger)
	jobService := service.NewJobService(jobRepo, folderRepo, prefsRepo, txManager, feed, logger)
	sessionService := service.NewSessionService(folderRepo, prefsRepo, logger)
	statsService := service.NewStatsService(jobService, prefsRepo, logger)
	diagnosticsService := service.NewDiagnosticsService(memory.NewHealthChecker(store), logger)

	prompt, err := posting.LoadPrompt()
	if err != nil {
		t.Fatalf("LoadPrompt() error = %v", err)
	}
	extractor := &fakeExtractor{}
	postingService := posting.NewService(extractor, prompt, logger)

	folders := NewFolderHandler(folderService, logger)
	jobs := NewJobHandler(jobService, folderService, logger)
	sessions := NewSessionHandler(sessionService, logger)
	stats := NewStatsHandler(statsService, logger)
	postings := NewPostingHandler(postingService, logger)
	diagnostics := NewDiagnosticsHandler(diagnosticsService, "s3cret", logger)
	events := NewEventsHandler(feed, nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", diagnostics.HealthCheck)
	mux.HandleFunc("GET /debug/diagnostics", diagnostics.Diagnostics)
	mux.HandleFunc("GET /api/folders", folders.ListFolders)
	mux.HandleFunc("POST /api/folders", folders.CreateFolder)
	mux.HandleFunc("POST /api/folders/default", folders.EnsureDefaultFolder)
	mux.HandleFunc("GET /api/folders/{id}", folders.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folders.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/move-jobs", folders.MoveJobs)
	mux.HandleFunc("POST /api/folders/{id}/select", folders.SelectFolder)
	mux.HandleFunc("GET /api/jobs", jobs.ListJobs)
	mux.HandleFunc("POST /api/jobs", jobs.CreateJob)
	mux.HandleFunc("DELETE /api/jobs", jobs.ClearJobs)
	mux.HandleFunc("GET /api/jobs/export", jobs.ExportJobs)
	mux.HandleFunc("GET /api/jobs/{id}", jobs.GetJob)
	mux.HandleFunc("PATCH /api/jobs/{id}", jobs.UpdateJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", jobs.DeleteJob)
	mux.HandleFunc("GET /api/session", sessions.GetSession)
	mux.HandleFunc("PATCH /api/session", sessions.UpdateSession)
	mux.HandleFunc("GET /api/stats", stats.GetStats)
	mux.HandleFunc("POST /api/postings/parse", postings.ParsePosting)
	mux.HandleFunc("GET /api/events", events.StreamEvents)

	return &testEnv{store: store, feed: feed, extractor: extractor, mux: mux}
}

// do sends a request as testUser (or anonymously when userID is empty)
func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req = httputil.WithUserID(req, userID)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func (e *testEnv) createFolder(t *testing.T, name string) models.Folder {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/folders", testUser, map[string]interface{}{"name": name, "is_active": true})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create folder status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[models.Folder](t, rec)
}

func (e *testEnv) createJob(t *testing.T, folderID, role, company string) models.Job {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/jobs", testUser, services.CreateJobRequest{
		FolderID: &folderID,
		Role:     role,
		Company:  company,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[models.Job](t, rec)
}
