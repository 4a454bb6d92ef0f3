package models

import "time"

// ChangeType names what happened in a ChangeEvent.
type ChangeType string

const (
	ChangeJobCreated    ChangeType = "job.created"
	ChangeJobUpdated    ChangeType = "job.updated"
	ChangeJobDeleted    ChangeType = "job.deleted"
	ChangeJobsCleared   ChangeType = "jobs.cleared"
	ChangeFolderCreated ChangeType = "folder.created"
	ChangeFolderUpdated ChangeType = "folder.updated"
	ChangeFolderDeleted ChangeType = "folder.deleted"
)

// ChangeEvent tells a user's other open clients that their data changed.
// Clients re-fetch; the event carries ids only.
type ChangeEvent struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id,omitempty"`
	FolderID *string    `json:"folder_id,omitempty"`
	At       time.Time  `json:"at"`
}
