package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"applytrack/internal/domain/services"
	"applytrack/internal/httputil"
)

// DiagnosticsHandler serves the health and storage diagnostics endpoints
type DiagnosticsHandler struct {
	diagnostics services.DiagnosticsService
	secret      string
	logger      *slog.Logger
}

// NewDiagnosticsHandler creates a diagnostics handler. An empty secret
// rejects every diagnostics request.
func NewDiagnosticsHandler(diagnostics services.DiagnosticsService, secret string, logger *slog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		diagnostics: diagnostics,
		secret:      secret,
		logger:      logger,
	}
}

// HealthCheck reports that the process is serving
// GET /health
func (h *DiagnosticsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Diagnostics performs one storage read when the shared secret matches
// GET /debug/diagnostics?secret=...
func (h *DiagnosticsHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	given := r.URL.Query().Get("secret")
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		h.logger.Warn("diagnostics request rejected", "remote_addr", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.diagnostics.CheckStorage(r.Context()); err != nil {
		httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
