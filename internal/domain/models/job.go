package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of DateApplied.
const DateLayout = "2006-01-02"

// DefaultExperience is stored when a posting does not state required experience.
const DefaultExperience = "Not specified"

// Job is one tracked application.
type Job struct {
	ID                 string        `json:"id" db:"id"`
	UserID             string        `json:"user_id" db:"user_id"`
	FolderID           *string       `json:"folder_id" db:"folder_id"` // NULL = unfiled
	Role               string        `json:"role" db:"role"`
	Company            string        `json:"company" db:"company"`
	Location           string        `json:"location" db:"location"`
	ExperienceRequired string        `json:"experience_required" db:"experience_required"`
	Skills             []string      `json:"skills" db:"skills"` // display order matters
	Remote             bool          `json:"remote" db:"remote"`
	Notes              string        `json:"notes" db:"notes"`
	Status             Status        `json:"status" db:"status"`
	DateApplied        string        `json:"date_applied" db:"date_applied"` // YYYY-MM-DD
	HadInterview       bool          `json:"had_interview" db:"had_interview"`
	JobPostingURL      *string       `json:"job_posting_url,omitempty" db:"job_posting_url"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	LastUpdated        time.Time     `json:"last_updated" db:"last_updated"`
	Timeline           []StatusEvent `json:"timeline"` // loaded from status events, oldest first
}

// StatusEvent records one status transition. Events are append-only.
type StatusEvent struct {
	ID        string    `json:"id" db:"id"`
	JobID     string    `json:"job_id" db:"job_id"`
	Status    Status    `json:"status" db:"status"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Note      *string   `json:"note,omitempty" db:"note"`
}

// AppliedOn returns DateApplied as a UTC midnight time.
func (j *Job) AppliedOn() (time.Time, bool) {
	t, err := time.Parse(DateLayout, j.DateApplied)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FirstEvent returns the earliest timeline event with the given status.
func (j *Job) FirstEvent(status Status) (StatusEvent, bool) {
	for _, ev := range j.Timeline {
		if ev.Status == status {
			return ev, true
		}
	}
	return StatusEvent{}, false
}

// DeriveHadInterview is the single place the sticky hadInterview flag is computed.
// The flag never goes back to false once set.
func DeriveHadInterview(prev bool, status Status, timeline []StatusEvent) bool {
	if prev || status.CountsAsResponse() {
		return true
	}
	for _, ev := range timeline {
		if ev.Status.CountsAsResponse() {
			return true
		}
	}
	return false
}

var dateInputLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// NormalizeDateApplied converts raw into YYYY-MM-DD. Blank input means today.
func NormalizeDateApplied(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Format(DateLayout), nil
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("date_applied %q is not a valid date (expected YYYY-MM-DD)", raw)
}
