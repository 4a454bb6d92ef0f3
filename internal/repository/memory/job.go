package memory

import (
	"context"
	"fmt"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
)

// JobRepository implements repositories.JobRepository on a Store.
// Timelines are stored inline on each job.
type JobRepository struct {
	store *Store
}

// NewJobRepository creates a job repository backed by store
func NewJobRepository(store *Store) repositories.JobRepository {
	return &JobRepository{store: store}
}

// folderExists mirrors the jobs.folder_id foreign key; caller holds the lock
func (s *Store) folderExists(folderID *string, userID string) bool {
	if folderID == nil {
		return true
	}
	folder, ok := s.folders[*folderID]
	return ok && folder.UserID == userID
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}
	if !s.folderExists(job.FolderID, job.UserID) {
		return folderNotFound(*job.FolderID)
	}

	job.ID = s.newID()
	for i := range job.Timeline {
		job.Timeline[i].ID = s.newID()
		job.Timeline[i].JobID = job.ID
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	s.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id, userID string) (*models.Job, error) {
	s := r.store
	defer s.rlock(ctx)()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	job, ok := s.jobs[id]
	if !ok || job.UserID != userID {
		return nil, jobNotFound(id)
	}
	job = cloneJob(job)
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context, userID string, folderID *string) ([]models.Job, error) {
	s := r.store
	defer s.rlock(ctx)()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	jobs := []models.Job{}
	for _, job := range s.jobs {
		if job.UserID != userID {
			continue
		}
		if folderID != nil && (job.FolderID == nil || *job.FolderID != *folderID) {
			continue
		}
		jobs = append(jobs, cloneJob(job))
	}
	return jobs, nil
}

// Update replaces the job row and keeps the stored timeline
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}

	existing, ok := s.jobs[job.ID]
	if !ok || existing.UserID != job.UserID {
		return jobNotFound(job.ID)
	}
	if !s.folderExists(job.FolderID, job.UserID) {
		return folderNotFound(*job.FolderID)
	}

	updated := cloneJob(*job)
	updated.CreatedAt = existing.CreatedAt
	updated.Timeline = existing.Timeline
	s.jobs[job.ID] = updated
	return nil
}

func (r *JobRepository) AppendEvent(ctx context.Context, userID string, event *models.StatusEvent) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}

	job, ok := s.jobs[event.JobID]
	if !ok || job.UserID != userID {
		return jobNotFound(event.JobID)
	}
	event.ID = s.newID()
	job.Timeline = append(job.Timeline, *event)
	s.jobs[job.ID] = job
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id, userID string) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}

	job, ok := s.jobs[id]
	if !ok || job.UserID != userID {
		return jobNotFound(id)
	}
	delete(s.jobs, id)
	return nil
}

func (r *JobRepository) DeleteAllByUser(ctx context.Context, userID string) (int, int, error) {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return 0, 0, s.FailWith
	}

	jobs, events := 0, 0
	for id, job := range s.jobs {
		if job.UserID != userID {
			continue
		}
		jobs++
		events += len(job.Timeline)
		delete(s.jobs, id)
	}
	return jobs, events, nil
}

func (r *JobRepository) CountByFolder(ctx context.Context, userID string) (map[string]int, error) {
	s := r.store
	defer s.rlock(ctx)()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	counts := map[string]int{}
	for _, job := range s.jobs {
		if job.UserID == userID && job.FolderID != nil {
			counts[*job.FolderID]++
		}
	}
	return counts, nil
}

func (r *JobRepository) ReassignFolder(ctx context.Context, userID, fromID string, toID *string) (int, error) {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	if !s.folderExists(toID, userID) {
		return 0, folderNotFound(*toID)
	}

	moved := 0
	now := s.now()
	for id, job := range s.jobs {
		if job.UserID != userID || job.FolderID == nil || *job.FolderID != fromID {
			continue
		}
		if toID == nil {
			job.FolderID = nil
		} else {
			target := *toID
			job.FolderID = &target
		}
		job.LastUpdated = now
		s.jobs[id] = job
		moved++
	}
	return moved, nil
}

func jobNotFound(id string) error {
	return &domain.NotFoundError{
		Message:      fmt.Sprintf("job %s not found", id),
		ResourceType: "job",
		ResourceID:   id,
	}
}
