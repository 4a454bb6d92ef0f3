package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
)

// sessionStore reads and writes the "session" namespace of user preferences.
// Folder and session services share it so selection changes go through one place.
type sessionStore struct {
	prefsRepo repositories.UserPreferencesRepository
	logger    *slog.Logger
	now       func() time.Time
}

func newSessionStore(prefsRepo repositories.UserPreferencesRepository, logger *slog.Logger) *sessionStore {
	return &sessionStore{prefsRepo: prefsRepo, logger: logger, now: time.Now}
}

// load returns the preferences row (a fresh one if the user has none) and its session
func (s *sessionStore) load(ctx context.Context, userID string) (*models.UserPreferences, models.Session, error) {
	prefs, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, models.Session{}, fmt.Errorf("get preferences: %w", err)
	}

	if prefs == nil {
		now := s.now()
		prefs = &models.UserPreferences{
			UserID:      userID,
			Preferences: models.JSONMap{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	session, err := prefs.GetSession()
	if err != nil {
		s.logger.Warn("stored session is unreadable, using defaults", "user_id", userID, "error", err)
	}
	return prefs, session, nil
}

func (s *sessionStore) save(ctx context.Context, prefs *models.UserPreferences, session models.Session) error {
	if err := prefs.SetSession(session); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	prefs.UpdatedAt = s.now()
	return s.prefsRepo.Upsert(ctx, prefs)
}

// selectedFolder resolves the folder scope for list and stats requests:
// an explicit choice wins, otherwise the session selection (nil = every folder).
func (s *sessionStore) selectedFolder(ctx context.Context, userID string, explicit *string, present bool) (*string, models.Session) {
	_, session, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load session, using defaults", "user_id", userID, "error", err)
		session = models.DefaultSession()
	}
	if present {
		return explicit, session
	}
	return session.CurrentFolderID, session
}

// repairSelection points the session at an existing folder: the current one if
// it still exists, else the first folder in list order, else none.
func repairSelection(session *models.Session, folders []models.Folder) bool {
	if session.CurrentFolderID != nil {
		for _, f := range folders {
			if f.ID == *session.CurrentFolderID {
				return false
			}
		}
	}

	var next *string
	if len(folders) > 0 {
		id := folders[0].ID
		next = &id
	}

	changed := (session.CurrentFolderID == nil) != (next == nil) ||
		(next != nil && *session.CurrentFolderID != *next)
	session.CurrentFolderID = next
	if changed {
		session.CurrentPage = 1
	}
	return changed
}
