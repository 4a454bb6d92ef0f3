package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
	"applytrack/internal/httputil"
	"applytrack/internal/service/export"
)

// clearConfirmation must be sent verbatim to clear every application
const clearConfirmation = "DELETE"

// JobHandler handles application HTTP requests
type JobHandler struct {
	jobService    services.JobService
	folderService services.FolderService
	logger        *slog.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService services.JobService, folderService services.FolderService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		jobService:    jobService,
		folderService: folderService,
		logger:        logger,
	}
}

// ListJobs returns one page of the user's applications. Parameters left out
// fall back to the stored session.
// GET /api/jobs?folder_id=&q=&status=&page_size=&page=&sort=
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	query := r.URL.Query()
	req := &services.QueryJobsRequest{
		UserID:     userID,
		FolderID:   httputil.OptionalQuery(query, "folder_id").Optional(),
		SearchTerm: httputil.QueryString(r, "q"),
		Status:     httputil.QueryString(r, "status"),
		Sort:       query.Get("sort"),
	}
	if raw := query.Get("page_size"); raw != "" {
		size, err := models.ParsePageSize(raw)
		if err != nil {
			handleError(w, h.logger, &domain.ValidationError{Message: err.Error(), Field: "page_size"})
			return
		}
		req.PageSize = &size
	}
	if req.Page, err = httputil.QueryInt(r, "page"); err != nil {
		handleError(w, h.logger, err)
		return
	}

	page, err := h.jobService.QueryJobs(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreateJob creates a new application
// POST /api/jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.CreateJobRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	req.UserID = userID

	job, err := h.jobService.CreateJob(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, job)
}

// GetJob retrieves an application with its timeline
// GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	job, err := h.jobService.GetJob(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, job)
}

// updateJobBody keeps null distinguishable from absent for the nullable fields
type updateJobBody struct {
	FolderID           httputil.OptionalString `json:"folder_id"`
	Role               *string                 `json:"role"`
	Company            *string                 `json:"company"`
	Location           *string                 `json:"location"`
	ExperienceRequired *string                 `json:"experience_required"`
	Skills             *[]string               `json:"skills"`
	Remote             *bool                   `json:"remote"`
	Notes              *string                 `json:"notes"`
	Status             *string                 `json:"status"`
	StatusNote         *string                 `json:"status_note"`
	DateApplied        *string                 `json:"date_applied"`
	JobPostingURL      httputil.OptionalString `json:"job_posting_url"`
}

// UpdateJob applies a partial update
// PATCH /api/jobs/{id}
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var body updateJobBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}

	job, err := h.jobService.UpdateJob(r.Context(), r.PathValue("id"), &services.UpdateJobRequest{
		UserID:             userID,
		FolderID:           body.FolderID.Optional(),
		Role:               body.Role,
		Company:            body.Company,
		Location:           body.Location,
		ExperienceRequired: body.ExperienceRequired,
		Skills:             body.Skills,
		Remote:             body.Remote,
		Notes:              body.Notes,
		Status:             body.Status,
		StatusNote:         body.StatusNote,
		DateApplied:        body.DateApplied,
		JobPostingURL:      body.JobPostingURL.Optional(),
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, job)
}

// DeleteJob deletes an application and its timeline
// DELETE /api/jobs/{id}
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.jobService.DeleteJob(r.Context(), r.PathValue("id"), userID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearJobs deletes every application the user has
// DELETE /api/jobs {"confirm": "DELETE"}
func (h *JobHandler) ClearJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var body struct {
		Confirm string `json:"confirm"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if body.Confirm != clearConfirmation {
		handleError(w, h.logger, &domain.ValidationError{
			Message: fmt.Sprintf("confirm must be %q to delete all applications", clearConfirmation),
			Field:   "confirm",
		})
		return
	}

	result, err := h.jobService.ClearAll(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ExportJobs streams applications as CSV; without folder_id every folder is included
// GET /api/jobs/export?folder_id=
func (h *JobHandler) ExportJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var folderID *string
	if id := strings.TrimSpace(r.URL.Query().Get("folder_id")); id != "" {
		folderID = &id
	}

	folders, err := h.folderService.ListFolders(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	names := make(map[string]string, len(folders))
	for _, f := range folders {
		names[f.ID] = f.Name
	}

	folderName := ""
	if folderID != nil {
		name, ok := names[*folderID]
		if !ok {
			handleError(w, h.logger, &domain.NotFoundError{
				Message:      fmt.Sprintf("folder %s not found", *folderID),
				ResourceType: "folder",
				ResourceID:   *folderID,
			})
			return
		}
		folderName = name
	}

	jobs, err := h.jobService.ListJobs(r.Context(), userID, folderID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(folderName, time.Now())))
	if err := export.WriteCSV(w, jobs, names); err != nil {
		// Headers are already sent; the client sees a truncated file
		h.logger.Error("csv export failed", "user_id", userID, "error", err)
		return
	}

	h.logger.Info("jobs exported", "user_id", userID, "folder_id", folderID, "count", len(jobs))
}
