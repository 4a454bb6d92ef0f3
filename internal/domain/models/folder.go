package models

import (
	"fmt"
	"time"
)

// DefaultFolderColor is used when a folder is created without a color.
const DefaultFolderColor = "#3B82F6"

// Folder is a user-defined grouping of applications, typically one hiring season.
type Folder struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FolderWithCount is a folder plus the number of applications filed in it.
type FolderWithCount struct {
	Folder
	JobCount int `json:"job_count"`
}

var seasonNames = [4]string{"Winter", "Spring", "Summer", "Fall"}

// DefaultSeasonName names a folder after the calendar quarter of t,
// e.g. "Fall 2026" for October.
func DefaultSeasonName(t time.Time) string {
	quarter := (int(t.Month()) - 1) / 3
	return fmt.Sprintf("%s %d", seasonNames[quarter], t.Year())
}
