package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates the operation targeted a nonexistent id
	NotFoundError struct {
		Message      string
		ResourceType string
		ResourceID   string
	}

	// ValidationError indicates bad or missing required input
	ValidationError struct {
		Message string
		Field   string
	}

	// UnauthenticatedError indicates there is no signed-in user for a user-scoped operation
	UnauthenticatedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string        { return e.Message }
func (e *ValidationError) Error() string      { return e.Message }
func (e *UnauthenticatedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int        { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *UnauthenticatedError) StatusCode() int { return http.StatusUnauthorized }

// Is allows errors.Is() to match the typed errors against their sentinels.
func (e *NotFoundError) Is(target error) bool        { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool      { return target == ErrValidation }
func (e *UnauthenticatedError) Is(target error) bool { return target == ErrUnauthenticated }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrBackend         = errors.New("backend request failed")
)

// ConflictError represents an operation blocked by existing references,
// e.g. deleting a folder that still has applications in it.
type ConflictError struct {
	Message      string // Human-readable, actionable message
	ResourceType string // Type of resource (folder, job)
	ResourceID   string // ID of the blocked resource
	References   int    // Number of dependents blocking the operation
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// BackendError wraps a failed request to an external collaborator (storage,
// extraction service). The underlying message is passed through opaquely.
type BackendError struct {
	Service string // "storage", "extraction", ...
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return e.Service + ": request failed"
	}
	return e.Service + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }

// StatusCode is 502 for upstream collaborators and 500 for our own storage.
func (e *BackendError) StatusCode() int {
	if e.Service == "storage" {
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// NewBackendError wraps err as a BackendError for the named service.
func NewBackendError(service string, err error) error {
	return &BackendError{Service: service, Err: err}
}
