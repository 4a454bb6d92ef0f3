package repositories

import "context"

// HealthChecker performs one cheap read against the storage backend.
type HealthChecker interface {
	Check(ctx context.Context) error
}
