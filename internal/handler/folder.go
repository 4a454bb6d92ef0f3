package handler

import (
	"log/slog"
	"net/http"

	"applytrack/internal/domain"
	"applytrack/internal/domain/services"
	"applytrack/internal/httputil"
)

// FolderHandler handles folder (hiring season) HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders returns the user's folders with job counts
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	folders, err := h.folderService.ListFolders(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder creates a new folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	req.UserID = userID

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// EnsureDefaultFolder gives a first-time user a season folder
// POST /api/folders/default
func (h *FolderHandler) EnsureDefaultFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	folder, err := h.folderService.EnsureDefaultFolder(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// GetFolder retrieves a folder
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// updateFolderBody distinguishes a null description (clear) from an absent one
type updateFolderBody struct {
	Name        *string                 `json:"name"`
	Description httputil.OptionalString `json:"description"`
	Color       *string                 `json:"color"`
	IsActive    *bool                   `json:"is_active"`
}

// UpdateFolder updates a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), r.PathValue("id"), &services.UpdateFolderRequest{
		UserID:      userID,
		Name:        body.Name,
		Description: body.Description.Optional(),
		Color:       body.Color,
		IsActive:    body.IsActive,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes an empty folder
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), r.PathValue("id"), userID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveJobs moves every job out of a folder
// POST /api/folders/{id}/move-jobs {"to_folder_id": "..." | null}
func (h *FolderHandler) MoveJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var body struct {
		ToFolderID httputil.OptionalString `json:"to_folder_id"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if !body.ToFolderID.Present {
		handleError(w, h.logger, &domain.ValidationError{
			Message: "to_folder_id is required (use null to unfile)",
			Field:   "to_folder_id",
		})
		return
	}

	moved, err := h.folderService.MoveJobs(r.Context(), &services.MoveJobsRequest{
		UserID:       userID,
		FromFolderID: r.PathValue("id"),
		ToFolderID:   body.ToFolderID.Value,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"moved": moved})
}

// SelectFolder makes a folder the current selection
// POST /api/folders/{id}/select
func (h *FolderHandler) SelectFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	id := r.PathValue("id")
	session, err := h.folderService.SelectFolder(r.Context(), userID, &id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}
