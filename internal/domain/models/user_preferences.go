package models

import (
	"encoding/json"
	"time"
)

// JSONMap is a type alias for JSONB columns
type JSONMap map[string]interface{}

const sessionNamespace = "session"

// UserPreferences holds per-user settings in a single namespaced JSONB column.
// The "session" namespace carries the view state (see Session).
type UserPreferences struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Preferences JSONMap   `json:"preferences" db:"preferences"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// GetSession extracts the session namespace, falling back to DefaultSession.
// The result is normalized.
func (up *UserPreferences) GetSession() (Session, error) {
	session := DefaultSession()
	if up == nil || up.Preferences == nil {
		return session, nil
	}

	raw, ok := up.Preferences[sessionNamespace]
	if !ok || raw == nil {
		return session, nil
	}

	// Re-marshal to ensure type safety
	data, err := json.Marshal(raw)
	if err != nil {
		return session, err
	}
	if err := json.Unmarshal(data, &session); err != nil {
		return DefaultSession(), err
	}

	session.Normalize()
	return session, nil
}

// SetSession stores the session namespace, leaving other namespaces intact.
func (up *UserPreferences) SetSession(session Session) error {
	if up.Preferences == nil {
		up.Preferences = JSONMap{}
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	var sessionMap map[string]interface{}
	if err := json.Unmarshal(data, &sessionMap); err != nil {
		return err
	}

	up.Preferences[sessionNamespace] = sessionMap
	return nil
}
