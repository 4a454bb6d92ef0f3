package memory

import (
	"context"
	"encoding/json"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
)

// UserPreferencesRepository implements repositories.UserPreferencesRepository on a Store
type UserPreferencesRepository struct {
	store *Store
}

// NewUserPreferencesRepository creates a preferences repository backed by store
func NewUserPreferencesRepository(store *Store) repositories.UserPreferencesRepository {
	return &UserPreferencesRepository{store: store}
}

func (r *UserPreferencesRepository) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	s := r.store
	defer s.rlock(ctx)()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	prefs, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	copied, err := copyJSONMap(prefs.Preferences)
	if err != nil {
		return nil, err
	}
	prefs.Preferences = copied
	return &prefs, nil
}

// Upsert stores a deep copy, the same shape a JSONB round trip would produce
func (r *UserPreferencesRepository) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}

	copied, err := copyJSONMap(prefs.Preferences)
	if err != nil {
		return err
	}
	stored := *prefs
	stored.Preferences = copied
	if existing, ok := s.prefs[prefs.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
		prefs.CreatedAt = existing.CreatedAt
	}
	s.prefs[prefs.UserID] = stored
	return nil
}

func copyJSONMap(m models.JSONMap) (models.JSONMap, error) {
	if m == nil {
		return models.JSONMap{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out models.JSONMap
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
