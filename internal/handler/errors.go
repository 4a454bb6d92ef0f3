package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"applytrack/internal/domain"
	"applytrack/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		backendErr    *domain.BackendError
	)

	switch {
	case errors.As(err, &validationErr):
		var extras map[string]interface{}
		if validationErr.Field != "" {
			extras = map[string]interface{}{"field": validationErr.Field}
		}
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, validationErr.Error(), extras)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, err.Error(), map[string]interface{}{
			"signed_out": true,
		})
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
			"references":    conflictErr.References,
		})
	case errors.As(err, &backendErr):
		logger.Error("backend request failed", "service", backendErr.Service, "error", err)
		httputil.RespondProblem(w, httputil.ProblemDetail{
			Title:  "Backend request failed",
			Status: backendErr.StatusCode(),
			Detail: backendErr.Error(),
			Extra:  map[string]interface{}{"service": backendErr.Service},
		})
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
