package handler

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"applytrack/internal/domain/models"
	"applytrack/internal/httputil"
)

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	folder := env.createFolder(t, "Fall 2025")
	env.createJob(t, folder.ID, "SWE", "Acme")
	env.createJob(t, folder.ID, "SRE", "Acme")

	rec := env.do(t, http.MethodGet, "/api/stats?months=3&days=7&top=1", testUser, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	summary := decode[models.StatsSummary](t, rec)
	if summary.Total != 2 || len(summary.Monthly) != 3 || len(summary.Daily) != 7 || len(summary.TopCompanies) != 1 {
		t.Errorf("summary = %+v", summary)
	}

	rec = env.do(t, http.MethodGet, "/api/stats?months=999", testUser, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out of range status = %d, want 400", rec.Code)
	}
}

func TestParsePosting(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.result = &models.PostingExtraction{Role: "SWE Intern", Company: "Acme", Skills: []string{"Go"}}

	rec := env.do(t, http.MethodPost, "/api/postings/parse", testUser, map[string]string{"text": "SWE Intern at Acme, Go required"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[models.PostingExtraction](t, rec)
	if got.Role != "SWE Intern" || got.ExperienceRequired != models.DefaultExperience {
		t.Errorf("extraction = %+v", got)
	}

	rec = env.do(t, http.MethodPost, "/api/postings/parse", testUser, map[string]string{"text": " "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank text status = %d, want 400", rec.Code)
	}

	env.extractor.err = errors.New("model overloaded")
	rec = env.do(t, http.MethodPost, "/api/postings/parse", testUser, map[string]string{"text": "posting"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("provider failure status = %d, want 502", rec.Code)
	}
	body := decode[map[string]interface{}](t, rec)
	if body["title"] != "Backend request failed" || !strings.Contains(body["detail"].(string), "model overloaded") {
		t.Errorf("body = %v", body)
	}
}

func TestDiagnostics(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/debug/diagnostics", "/debug/diagnostics?secret=wrong"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
			t.Errorf("%s: status %d body %q, want bare 401", path, rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, http.MethodGet, "/debug/diagnostics?secret=s3cret", "", nil)
	if rec.Code != http.StatusOK || decode[map[string]bool](t, rec)["ok"] != true {
		t.Errorf("healthy: status %d body %s", rec.Code, rec.Body.String())
	}

	env.store.FailWith = errors.New("connection refused")
	rec = env.do(t, http.MethodGet, "/debug/diagnostics?secret=s3cret", "", nil)
	body := decode[map[string]interface{}](t, rec)
	if rec.Code != http.StatusServiceUnavailable || body["ok"] != false || body["error"] != "connection refused" {
		t.Errorf("failing: status %d body %v", rec.Code, body)
	}

	rec = env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestStreamEvents(t *testing.T) {
	env := newTestEnv(t)
	folder := env.createFolder(t, "Fall 2025")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.mux.ServeHTTP(w, httputil.WithUserID(r, testUser))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	// the connected comment arrives after the subscription is registered
	if line, err := reader.ReadString('\n'); err != nil || !strings.HasPrefix(line, ": connected") {
		t.Fatalf("first line = %q, %v", line, err)
	}

	job := env.createJob(t, folder.ID, "SWE", "Acme")

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, "event: ") {
			if got := strings.TrimSpace(strings.TrimPrefix(line, "event: ")); got != string(models.ChangeJobCreated) {
				t.Fatalf("event = %q, want job.created", got)
			}
			data, _ := reader.ReadString('\n')
			if !strings.Contains(data, job.ID) {
				t.Errorf("data = %q, want job id %s", data, job.ID)
			}
			return
		}
	}
}
