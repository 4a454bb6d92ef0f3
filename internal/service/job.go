package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"applytrack/internal/config"
	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
	"applytrack/internal/domain/services"
	"applytrack/internal/service/listing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// jobService implements services.JobService
type jobService struct {
	jobRepo    repositories.JobRepository
	folderRepo repositories.FolderRepository
	sessions   *sessionStore
	txManager  repositories.TransactionManager
	changes    services.ChangePublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo repositories.JobRepository,
	folderRepo repositories.FolderRepository,
	prefsRepo repositories.UserPreferencesRepository,
	txManager repositories.TransactionManager,
	changes services.ChangePublisher,
	logger *slog.Logger,
) services.JobService {
	return &jobService{
		jobRepo:    jobRepo,
		folderRepo: folderRepo,
		sessions:   newSessionStore(prefsRepo, logger),
		txManager:  txManager,
		changes:    changes,
		logger:     logger,
		now:        time.Now,
	}
}

// ListJobs degrades to an empty list when the backend read fails
func (s *jobService) ListJobs(ctx context.Context, userID string, folderID *string) ([]models.Job, error) {
	jobs, err := s.jobRepo.List(ctx, userID, folderID)
	if err != nil {
		s.logger.Warn("list jobs failed, returning empty list",
			"user_id", userID,
			"folder_id", folderID,
			"error", err,
		)
		return []models.Job{}, nil
	}
	return jobs, nil
}

// QueryJobs fills missing parameters from the session, then searches, filters,
// sorts and paginates the folder's jobs
func (s *jobService) QueryJobs(ctx context.Context, req *services.QueryJobsRequest) (*services.JobPage, error) {
	folderID, session := s.sessions.selectedFolder(ctx, req.UserID, req.FolderID.Value, req.FolderID.Present)

	q := listing.Query{
		SearchTerm: session.SearchTerm,
		Status:     session.StatusFilter,
		PageSize:   session.PageSize,
		Page:       session.CurrentPage,
		Sort:       req.Sort,
	}
	if req.SearchTerm != nil {
		q.SearchTerm = *req.SearchTerm
	}
	if req.Status != nil {
		filter, err := models.ParseStatusFilter(*req.Status)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error(), Field: "status"}
		}
		q.Status = filter
	}
	if req.PageSize != nil {
		if !req.PageSize.Valid() {
			return nil, &domain.ValidationError{Message: "page_size must be a positive integer or \"all\"", Field: "page_size"}
		}
		q.PageSize = *req.PageSize
	}
	if req.Page != nil {
		q.Page = *req.Page
	}

	jobs, err := s.ListJobs(ctx, req.UserID, folderID)
	if err != nil {
		return nil, err
	}

	page := listing.Apply(jobs, q)
	return &services.JobPage{
		Items:      page.Items,
		Page:       page.Page,
		PageSize:   q.PageSize.String(),
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
		HasMore:    page.Page < page.TotalPages,
	}, nil
}

// GetJob retrieves one job with its timeline
func (s *jobService) GetJob(ctx context.Context, id, userID string) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, id, userID)
}

// CreateJob validates input, normalizes it and stores the job with its initial
// timeline: an Applied event, plus an event for the initial status when it differs
func (s *jobService) CreateJob(ctx context.Context, req *services.CreateJobRequest) (*models.Job, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, asValidationError(err)
	}

	status := models.StatusApplied
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := models.ParseStatus(req.Status)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error(), Field: "status"}
		}
		status = parsed
	}

	now := s.now()
	dateApplied, err := models.NormalizeDateApplied(req.DateApplied, now)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error(), Field: "date_applied"}
	}

	experience := strings.TrimSpace(req.ExperienceRequired)
	if experience == "" {
		experience = models.DefaultExperience
	}

	// The timeline always starts with Applied; a later initial status only
	// shows in Status and HadInterview
	timeline := []models.StatusEvent{{Status: models.StatusApplied, Timestamp: now}}

	folderID := strings.TrimSpace(*req.FolderID)
	job := &models.Job{
		UserID:             req.UserID,
		FolderID:           &folderID,
		Role:               strings.TrimSpace(req.Role),
		Company:            strings.TrimSpace(req.Company),
		Location:           strings.TrimSpace(req.Location),
		ExperienceRequired: experience,
		Skills:             cleanSkills(req.Skills),
		Remote:             req.Remote,
		Notes:              req.Notes,
		Status:             status,
		DateApplied:        dateApplied,
		HadInterview:       models.DeriveHadInterview(false, status, timeline),
		JobPostingURL:      trimmedPtr(req.JobPostingURL),
		CreatedAt:          now,
		LastUpdated:        now,
		Timeline:           timeline,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.folderRepo.GetByID(txCtx, folderID, req.UserID); err != nil {
			return err
		}
		return s.jobRepo.Create(txCtx, job)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job created",
		"id", job.ID,
		"company", job.Company,
		"status", job.Status,
		"folder_id", folderID,
		"user_id", req.UserID,
	)
	s.changes.Publish(req.UserID, models.ChangeEvent{Type: models.ChangeJobCreated, ID: job.ID, FolderID: job.FolderID, At: now})

	return job, nil
}

// UpdateJob replaces supplied fields. A status change appends exactly one
// timeline event before the row is saved; resubmitting the same status appends nothing.
func (s *jobService) UpdateJob(ctx context.Context, id string, req *services.UpdateJobRequest) (*models.Job, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, err
	}

	var newStatus *models.Status
	if req.Status != nil {
		parsed, err := models.ParseStatus(*req.Status)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error(), Field: "status"}
		}
		newStatus = &parsed
	}

	now := s.now()
	var dateApplied *string
	if req.DateApplied != nil {
		normalized, err := models.NormalizeDateApplied(*req.DateApplied, now)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error(), Field: "date_applied"}
		}
		dateApplied = &normalized
	}

	var job *models.Job
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		job, err = s.jobRepo.GetByID(txCtx, id, req.UserID)
		if err != nil {
			return err
		}

		if req.FolderID.Present {
			if req.FolderID.Value != nil {
				if _, err := s.folderRepo.GetByID(txCtx, *req.FolderID.Value, req.UserID); err != nil {
					return err
				}
			}
			job.FolderID = req.FolderID.Value
		}
		applyJobFields(job, req)
		if dateApplied != nil {
			job.DateApplied = *dateApplied
		}

		if newStatus != nil && *newStatus != job.Status {
			event := models.StatusEvent{
				JobID:     job.ID,
				Status:    *newStatus,
				Timestamp: now,
				Note:      trimmedPtr(req.StatusNote),
			}
			if err := s.jobRepo.AppendEvent(txCtx, req.UserID, &event); err != nil {
				return err
			}
			job.Timeline = append(job.Timeline, event)
			job.Status = *newStatus
		}

		job.HadInterview = models.DeriveHadInterview(job.HadInterview, job.Status, job.Timeline)
		job.LastUpdated = now
		return s.jobRepo.Update(txCtx, job)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job updated",
		"id", job.ID,
		"status", job.Status,
		"timeline_length", len(job.Timeline),
		"user_id", req.UserID,
	)
	s.changes.Publish(req.UserID, models.ChangeEvent{Type: models.ChangeJobUpdated, ID: job.ID, FolderID: job.FolderID, At: now})

	return job, nil
}

func applyJobFields(job *models.Job, req *services.UpdateJobRequest) {
	if req.Role != nil {
		job.Role = strings.TrimSpace(*req.Role)
	}
	if req.Company != nil {
		job.Company = strings.TrimSpace(*req.Company)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.ExperienceRequired != nil {
		job.ExperienceRequired = strings.TrimSpace(*req.ExperienceRequired)
		if job.ExperienceRequired == "" {
			job.ExperienceRequired = models.DefaultExperience
		}
	}
	if req.Skills != nil {
		job.Skills = cleanSkills(*req.Skills)
	}
	if req.Remote != nil {
		job.Remote = *req.Remote
	}
	if req.Notes != nil {
		job.Notes = *req.Notes
	}
	if req.JobPostingURL.Present {
		job.JobPostingURL = trimmedPtr(req.JobPostingURL.Value)
	}
}

// DeleteJob removes a job and its timeline
func (s *jobService) DeleteJob(ctx context.Context, id, userID string) error {
	if err := s.jobRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("job deleted",
		"id", id,
		"user_id", userID,
	)
	s.changes.Publish(userID, models.ChangeEvent{Type: models.ChangeJobDeleted, ID: id, At: s.now()})

	return nil
}

// ClearAll deletes every job and event of the user in one transaction
func (s *jobService) ClearAll(ctx context.Context, userID string) (*services.ClearResult, error) {
	result := &services.ClearResult{}
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		result.Jobs, result.Events, err = s.jobRepo.DeleteAllByUser(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("all jobs cleared",
		"jobs", result.Jobs,
		"events", result.Events,
		"user_id", userID,
	)
	s.changes.Publish(userID, models.ChangeEvent{Type: models.ChangeJobsCleared, At: s.now()})

	return result, nil
}

// validateCreateRequest validates a create job request
func (s *jobService) validateCreateRequest(req *services.CreateJobRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.FolderID, validation.Required.Error("is required"), validation.By(notBlank)),
		validation.Field(&req.Role, validation.By(notBlank), validation.RuneLength(1, config.MaxJobTextLength)),
		validation.Field(&req.Company, validation.By(notBlank), validation.RuneLength(1, config.MaxJobTextLength)),
		validation.Field(&req.Location, validation.RuneLength(0, config.MaxJobTextLength)),
		validation.Field(&req.ExperienceRequired, validation.RuneLength(0, config.MaxJobTextLength)),
		validation.Field(&req.Notes, validation.RuneLength(0, config.MaxNotesLength)),
		validation.Field(&req.Skills, validation.Length(0, config.MaxSkills)),
		validation.Field(&req.JobPostingURL, validation.By(httpURL)),
	)
}

// validateUpdateRequest validates the supplied fields of an update
func (s *jobService) validateUpdateRequest(req *services.UpdateJobRequest) error {
	empty := !req.FolderID.Present && !req.JobPostingURL.Present &&
		req.Role == nil && req.Company == nil && req.Location == nil &&
		req.ExperienceRequired == nil && req.Skills == nil && req.Remote == nil &&
		req.Notes == nil && req.Status == nil && req.DateApplied == nil
	if empty {
		return &domain.ValidationError{Message: "at least one field is required"}
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Role, validation.NilOrNotEmpty, validation.By(notBlank), validation.RuneLength(1, config.MaxJobTextLength)),
		validation.Field(&req.Company, validation.NilOrNotEmpty, validation.By(notBlank), validation.RuneLength(1, config.MaxJobTextLength)),
		validation.Field(&req.Location, validation.RuneLength(0, config.MaxJobTextLength)),
		validation.Field(&req.ExperienceRequired, validation.RuneLength(0, config.MaxJobTextLength)),
		validation.Field(&req.Notes, validation.RuneLength(0, config.MaxNotesLength)),
		validation.Field(&req.Skills, validation.By(func(value interface{}) error {
			if skills, ok := value.(*[]string); ok && skills != nil && len(*skills) > config.MaxSkills {
				return validation.NewError("validation_skills_length", "too many skills")
			}
			return nil
		})),
	)
	if err != nil {
		return asValidationError(err)
	}

	if req.JobPostingURL.Value != nil {
		if err := httpURL(*req.JobPostingURL.Value); err != nil {
			return &domain.ValidationError{Message: "job_posting_url: " + err.Error(), Field: "job_posting_url"}
		}
	}
	return nil
}
