package handler

import (
	"net/http"
	"testing"

	"applytrack/internal/domain/models"
)

func TestSessionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	folder := env.createFolder(t, "Fall 2025")

	rec := env.do(t, http.MethodGet, "/api/session", testUser, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	session := decode[models.Session](t, rec)
	if session.CurrentFolderID == nil || *session.CurrentFolderID != folder.ID || session.PageSize.N != 10 {
		t.Errorf("initial session = %+v", session)
	}

	rec = env.do(t, http.MethodPatch, "/api/session", testUser, `{"search_term": "acme", "page_size": "all", "status_filter": "oa"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body %s", rec.Code, rec.Body.String())
	}
	session = decode[models.Session](t, rec)
	if session.SearchTerm != "acme" || !session.PageSize.All || session.StatusFilter != models.StatusFilter(models.StatusOnlineAssessment) {
		t.Errorf("updated session = %+v", session)
	}

	rec = env.do(t, http.MethodPatch, "/api/session", testUser, `{"current_folder_id": null}`)
	session = decode[models.Session](t, rec)
	if session.CurrentFolderID != nil {
		t.Errorf("folder not cleared: %v", *session.CurrentFolderID)
	}

	rec = env.do(t, http.MethodPatch, "/api/session", testUser, `{"page_size": -3}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad page size status = %d, want 400", rec.Code)
	}
}
