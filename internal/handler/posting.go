package handler

import (
	"log/slog"
	"net/http"

	"applytrack/internal/domain/services"
	"applytrack/internal/httputil"
)

// PostingHandler turns pasted job postings into pre-filled application fields
type PostingHandler struct {
	postingService services.PostingService
	logger         *slog.Logger
}

// NewPostingHandler creates a new posting handler
func NewPostingHandler(postingService services.PostingService, logger *slog.Logger) *PostingHandler {
	return &PostingHandler{
		postingService: postingService,
		logger:         logger,
	}
}

// ParsePosting extracts fields from posting text. Nothing is stored.
// POST /api/postings/parse {"text": "..."}
func (h *PostingHandler) ParsePosting(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}

	extraction, err := h.postingService.ParsePosting(r.Context(), userID, body.Text)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, extraction)
}
