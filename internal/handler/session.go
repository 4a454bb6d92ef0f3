package handler

import (
	"log/slog"
	"net/http"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
	"applytrack/internal/httputil"
)

// SessionHandler exposes the per-user view state
type SessionHandler struct {
	sessionService services.SessionService
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService services.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// GetSession returns the stored session
// GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := h.sessionService.GetSession(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}

type updateSessionBody struct {
	CurrentFolderID httputil.OptionalString `json:"current_folder_id"`
	SearchTerm      *string                 `json:"search_term"`
	StatusFilter    *string                 `json:"status_filter"`
	PageSize        *models.PageSize        `json:"page_size"`
	CurrentPage     *int                    `json:"current_page"`
}

// UpdateSession changes any subset of the session
// PATCH /api/session
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var body updateSessionBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := h.sessionService.UpdateSession(r.Context(), &services.UpdateSessionRequest{
		UserID:          userID,
		CurrentFolderID: body.CurrentFolderID.Optional(),
		SearchTerm:      body.SearchTerm,
		StatusFilter:    body.StatusFilter,
		PageSize:        body.PageSize,
		CurrentPage:     body.CurrentPage,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}
