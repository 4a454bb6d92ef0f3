package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"applytrack/internal/config"
	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
	"applytrack/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"
)

// folderService implements services.FolderService
type folderService struct {
	folderRepo repositories.FolderRepository
	jobRepo    repositories.JobRepository
	sessions   *sessionStore
	txManager  repositories.TransactionManager
	changes    services.ChangePublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	jobRepo repositories.JobRepository,
	prefsRepo repositories.UserPreferencesRepository,
	txManager repositories.TransactionManager,
	changes services.ChangePublisher,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		jobRepo:    jobRepo,
		sessions:   newSessionStore(prefsRepo, logger),
		txManager:  txManager,
		changes:    changes,
		logger:     logger,
		now:        time.Now,
	}
}

// ListFolders loads folders and per-folder job counts concurrently.
// A failed read degrades to an empty list.
func (s *folderService) ListFolders(ctx context.Context, userID string) ([]models.FolderWithCount, error) {
	var folders []models.Folder
	var counts map[string]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folders, err = s.folderRepo.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.jobRepo.CountByFolder(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("list folders failed, returning empty list", "user_id", userID, "error", err)
		return []models.FolderWithCount{}, nil
	}

	result := make([]models.FolderWithCount, len(folders))
	for i, f := range folders {
		result[i] = models.FolderWithCount{Folder: f, JobCount: counts[f.ID]}
	}
	return result, nil
}

// GetFolder retrieves one folder
func (s *folderService) GetFolder(ctx context.Context, id, userID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id, userID)
}

// CreateFolder validates and stores a folder. The first folder a user creates
// (or any folder created while nothing is selected) becomes the selection.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, asValidationError(err)
	}

	now := s.now()
	folder := &models.Folder{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: trimmedPtr(req.Description),
		Color:       models.DefaultFolderColor,
		IsActive:    req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Color != nil && *req.Color != "" {
		folder.Color = strings.ToUpper(*req.Color)
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.Create(txCtx, folder); err != nil {
			return err
		}

		prefs, session, err := s.sessions.load(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if session.CurrentFolderID != nil {
			return nil
		}
		session.CurrentFolderID = &folder.ID
		session.CurrentPage = 1
		return s.sessions.save(txCtx, prefs, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", req.UserID,
	)
	s.changes.Publish(req.UserID, models.ChangeEvent{Type: models.ChangeFolderCreated, ID: folder.ID, At: now})

	return folder, nil
}

// UpdateFolder applies a partial update
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, id, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Present {
		folder.Description = trimmedPtr(req.Description.Value)
	}
	if req.Color != nil {
		folder.Color = strings.ToUpper(*req.Color)
	}
	if req.IsActive != nil {
		folder.IsActive = *req.IsActive
	}
	folder.UpdatedAt = s.now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"user_id", req.UserID,
	)
	s.changes.Publish(req.UserID, models.ChangeEvent{Type: models.ChangeFolderUpdated, ID: folder.ID, At: folder.UpdatedAt})

	return folder, nil
}

// DeleteFolder refuses while any job is filed under the folder. When the deleted
// folder was selected, the selection falls back to the first remaining folder.
func (s *folderService) DeleteFolder(ctx context.Context, id, userID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.folderRepo.GetByID(txCtx, id, userID); err != nil {
			return err
		}

		counts, err := s.jobRepo.CountByFolder(txCtx, userID)
		if err != nil {
			return err
		}
		if n := counts[id]; n > 0 {
			return &domain.ConflictError{
				Message:      "folder contains applications; move or delete them first",
				ResourceType: "folder",
				ResourceID:   id,
				References:   n,
			}
		}

		if err := s.folderRepo.Delete(txCtx, id, userID); err != nil {
			return err
		}

		prefs, session, err := s.sessions.load(txCtx, userID)
		if err != nil {
			return err
		}
		if session.CurrentFolderID == nil || *session.CurrentFolderID != id {
			return nil
		}
		remaining, err := s.folderRepo.List(txCtx, userID)
		if err != nil {
			return err
		}
		repairSelection(&session, remaining)
		return s.sessions.save(txCtx, prefs, session)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"user_id", userID,
	)
	s.changes.Publish(userID, models.ChangeEvent{Type: models.ChangeFolderDeleted, ID: id, At: s.now()})

	return nil
}

// EnsureDefaultFolder gives a new user a season folder named after the current
// quarter and selects it. Existing users get their selected (or first) folder.
func (s *folderService) EnsureDefaultFolder(ctx context.Context, userID string) (*models.Folder, error) {
	var result *models.Folder
	created := false

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folders, err := s.folderRepo.List(txCtx, userID)
		if err != nil {
			return err
		}
		prefs, session, err := s.sessions.load(txCtx, userID)
		if err != nil {
			return err
		}

		if len(folders) == 0 {
			now := s.now()
			folder := &models.Folder{
				UserID:    userID,
				Name:      models.DefaultSeasonName(now),
				Color:     models.DefaultFolderColor,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.folderRepo.Create(txCtx, folder); err != nil {
				return err
			}
			folders = []models.Folder{*folder}
			created = true
		}

		if repairSelection(&session, folders) {
			if err := s.sessions.save(txCtx, prefs, session); err != nil {
				return err
			}
		}
		for i := range folders {
			if folders[i].ID == *session.CurrentFolderID {
				result = &folders[i]
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("default folder created",
			"id", result.ID,
			"name", result.Name,
			"user_id", userID,
		)
		s.changes.Publish(userID, models.ChangeEvent{Type: models.ChangeFolderCreated, ID: result.ID, At: result.CreatedAt})
	}

	return result, nil
}

// MoveJobs reassigns a folder's jobs to another folder or to unfiled
func (s *folderService) MoveJobs(ctx context.Context, req *services.MoveJobsRequest) (int, error) {
	if req.ToFolderID != nil && *req.ToFolderID == req.FromFolderID {
		return 0, &domain.ValidationError{Message: "target folder must differ from the source folder", Field: "to_folder_id"}
	}

	moved := 0
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.folderRepo.GetByID(txCtx, req.FromFolderID, req.UserID); err != nil {
			return err
		}
		if req.ToFolderID != nil {
			if _, err := s.folderRepo.GetByID(txCtx, *req.ToFolderID, req.UserID); err != nil {
				return err
			}
		}

		var err error
		moved, err = s.jobRepo.ReassignFolder(txCtx, req.UserID, req.FromFolderID, req.ToFolderID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("jobs moved",
		"from_folder_id", req.FromFolderID,
		"to_folder_id", req.ToFolderID,
		"count", moved,
		"user_id", req.UserID,
	)
	s.changes.Publish(req.UserID, models.ChangeEvent{Type: models.ChangeFolderUpdated, ID: req.FromFolderID, FolderID: req.ToFolderID, At: s.now()})

	return moved, nil
}

// SelectFolder stores the selection and resets paging
func (s *folderService) SelectFolder(ctx context.Context, userID string, folderID *string) (*models.Session, error) {
	if folderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *folderID, userID); err != nil {
			return nil, err
		}
	}

	prefs, session, err := s.sessions.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.CurrentFolderID = folderID
	session.CurrentPage = 1
	if err := s.sessions.save(ctx, prefs, session); err != nil {
		return nil, err
	}

	s.logger.Debug("folder selected", "folder_id", folderID, "user_id", userID)
	return &session, nil
}

// validateCreateRequest validates a create folder request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxFolderNameLength),
		),
		validation.Field(&req.Description, validation.RuneLength(0, config.MaxFolderDescriptionLength)),
		validation.Field(&req.Color, validation.Match(hexColor).Error("must be a #RRGGBB color")),
	)
}

// validateUpdateRequest checks field rules and that something is being changed
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && !req.Description.Present && req.Color == nil && req.IsActive == nil {
		return &domain.ValidationError{Message: "at least one field is required"}
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxFolderNameLength),
		),
		validation.Field(&req.Color, validation.Match(hexColor).Error("must be a #RRGGBB color")),
	)
	if err != nil {
		return asValidationError(err)
	}

	if req.Description.Value != nil && len([]rune(*req.Description.Value)) > config.MaxFolderDescriptionLength {
		return &domain.ValidationError{
			Message: fmt.Sprintf("description: the length must be no more than %d.", config.MaxFolderDescriptionLength),
			Field:   "description",
		}
	}
	return nil
}
