package services

import "context"

// DiagnosticsService verifies that the storage backend answers
type DiagnosticsService interface {
	// CheckStorage performs a single read and returns its error, if any
	CheckStorage(ctx context.Context) error
}
