// Package memory is an in-process storage backend for local development and tests.
// It implements the same repository interfaces as the postgres package.
package memory

import (
	"context"
	"sync"
	"time"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"

	"github.com/google/uuid"
)

// Store holds every user's data behind one lock.
type Store struct {
	mu      sync.RWMutex
	folders map[string]models.Folder
	jobs    map[string]models.Job
	prefs   map[string]models.UserPreferences

	// FailWith, when set, is returned by every repository call. Tests use it
	// to simulate an unavailable backend.
	FailWith error

	now   func() time.Time
	newID func() string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		folders: map[string]models.Folder{},
		jobs:    map[string]models.Job{},
		prefs:   map[string]models.UserPreferences{},
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock takes the write lock unless ctx belongs to a transaction that already holds it.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// TransactionManager serializes transactions on the store lock and restores
// a snapshot when fn fails.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager for the store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn with the store locked. Nested calls reuse the outer transaction.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s := tm.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type storeState struct {
	folders map[string]models.Folder
	jobs    map[string]models.Job
	prefs   map[string]models.UserPreferences
}

func (s *Store) snapshot() storeState {
	state := storeState{
		folders: make(map[string]models.Folder, len(s.folders)),
		jobs:    make(map[string]models.Job, len(s.jobs)),
		prefs:   make(map[string]models.UserPreferences, len(s.prefs)),
	}
	for k, v := range s.folders {
		state.folders[k] = v
	}
	for k, v := range s.jobs {
		state.jobs[k] = cloneJob(v)
	}
	for k, v := range s.prefs {
		state.prefs[k] = v
	}
	return state
}

func (s *Store) restore(state storeState) {
	s.folders = state.folders
	s.jobs = state.jobs
	s.prefs = state.prefs
}

// cloneJob copies the slices so callers never alias stored data
func cloneJob(job models.Job) models.Job {
	job.Skills = append([]string{}, job.Skills...)
	job.Timeline = append([]models.StatusEvent{}, job.Timeline...)
	if job.FolderID != nil {
		id := *job.FolderID
		job.FolderID = &id
	}
	return job
}

// HealthChecker reports the configured failure, if any
type HealthChecker struct {
	store *Store
}

// NewHealthChecker creates a storage health checker for the store
func NewHealthChecker(store *Store) repositories.HealthChecker {
	return &HealthChecker{store: store}
}

// Check performs one read
func (h *HealthChecker) Check(ctx context.Context) error {
	defer h.store.rlock(ctx)()
	return h.store.FailWith
}
