package handler

import (
	"log/slog"
	"net/http"

	"applytrack/internal/domain/services"
	"applytrack/internal/httputil"
)

// StatsHandler serves the dashboard summary
type StatsHandler struct {
	statsService services.StatsService
	logger       *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService services.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// GetStats summarizes a folder's applications
// GET /api/stats?folder_id=&months=6&days=30&top=5
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	req := &services.StatsRequest{
		UserID:   userID,
		FolderID: httputil.OptionalQuery(r.URL.Query(), "folder_id").Optional(),
	}
	for name, dest := range map[string]*int{"months": &req.Months, "days": &req.Days, "top": &req.Top} {
		n, err := httputil.QueryInt(r, name)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		if n != nil {
			*dest = *n
		}
	}

	summary, err := h.statsService.Summarize(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}
