package service

import (
	"context"
	"log/slog"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
	"applytrack/internal/domain/services"

	"golang.org/x/sync/errgroup"
)

// SessionService implements the SessionService interface
type SessionService struct {
	folderRepo repositories.FolderRepository
	sessions   *sessionStore
	logger     *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	folderRepo repositories.FolderRepository,
	prefsRepo repositories.UserPreferencesRepository,
	logger *slog.Logger,
) services.SessionService {
	return &SessionService{
		folderRepo: folderRepo,
		sessions:   newSessionStore(prefsRepo, logger),
		logger:     logger,
	}
}

// GetSession loads the stored session and the folder list concurrently, then
// repairs a selection that no longer exists. A repaired session is written back.
func (s *SessionService) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	var (
		prefs   *models.UserPreferences
		session models.Session
		folders []models.Folder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prefs, session, err = s.sessions.load(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		folders, err = s.folderRepo.List(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if repairSelection(&session, folders) {
		s.logger.Debug("session folder repaired",
			"user_id", userID,
			"folder_id", session.CurrentFolderID,
		)
		if err := s.sessions.save(ctx, prefs, session); err != nil {
			// The repaired value is still correct for this response
			s.logger.Warn("failed to persist repaired session", "user_id", userID, "error", err)
		}
	}

	return &session, nil
}

// UpdateSession applies a partial update. Changing the folder, search term,
// filter or page size without an explicit page resets paging to page 1.
func (s *SessionService) UpdateSession(ctx context.Context, req *services.UpdateSessionRequest) (*models.Session, error) {
	if req.CurrentFolderID.Present && req.CurrentFolderID.Value != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.CurrentFolderID.Value, req.UserID); err != nil {
			return nil, err
		}
	}

	prefs, session, err := s.sessions.load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	resetPage := false
	if req.CurrentFolderID.Present {
		session.CurrentFolderID = req.CurrentFolderID.Value
		resetPage = true
	}
	if req.SearchTerm != nil {
		session.SearchTerm = *req.SearchTerm
		resetPage = true
	}
	if req.StatusFilter != nil {
		filter, err := models.ParseStatusFilter(*req.StatusFilter)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error(), Field: "status_filter"}
		}
		session.StatusFilter = filter
		resetPage = true
	}
	if req.PageSize != nil {
		if !req.PageSize.Valid() {
			return nil, &domain.ValidationError{Message: "page_size must be a positive integer or \"all\"", Field: "page_size"}
		}
		session.PageSize = *req.PageSize
		resetPage = true
	}
	if req.CurrentPage != nil {
		if *req.CurrentPage < 1 {
			return nil, &domain.ValidationError{Message: "current_page must be at least 1", Field: "current_page"}
		}
		session.CurrentPage = *req.CurrentPage
	} else if resetPage {
		session.CurrentPage = 1
	}

	if err := s.sessions.save(ctx, prefs, session); err != nil {
		return nil, err
	}

	s.logger.Debug("session updated", "user_id", req.UserID)
	return &session, nil
}
