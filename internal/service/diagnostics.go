package service

import (
	"context"
	"log/slog"
	"time"

	"applytrack/internal/domain/repositories"
	"applytrack/internal/domain/services"
)

const diagnosticsTimeout = 5 * time.Second

type diagnosticsService struct {
	checker repositories.HealthChecker
	logger  *slog.Logger
}

// NewDiagnosticsService creates a diagnostics service over the storage health checker
func NewDiagnosticsService(checker repositories.HealthChecker, logger *slog.Logger) services.DiagnosticsService {
	return &diagnosticsService{checker: checker, logger: logger}
}

func (s *diagnosticsService) CheckStorage(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, diagnosticsTimeout)
	defer cancel()

	start := time.Now()
	err := s.checker.Check(ctx)
	if err != nil {
		s.logger.Warn("storage diagnostics failed", "error", err, "duration", time.Since(start))
		return err
	}
	s.logger.Info("storage diagnostics ok", "duration", time.Since(start))
	return nil
}
