package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/httputil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.SupabaseClaims, error) {
	if token != "good" {
		return nil, &domain.UnauthenticatedError{Message: "sign in again: invalid token"}
	}
	claims := &models.SupabaseClaims{Role: "authenticated"}
	claims.Subject = "user-1"
	return claims, nil
}

func (stubVerifier) Close() error { return nil }

// echoUser writes the authenticated user id
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, httputil.GetUserID(r))
})

func TestAuthMiddleware(t *testing.T) {
	handler := AuthMiddleware(stubVerifier{}, discard)(echoUser)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"valid token", "/api/jobs", "Bearer good", http.StatusOK, "user-1"},
		{"lowercase scheme", "/api/jobs", "bearer good", http.StatusOK, "user-1"},
		{"missing header", "/api/jobs", "", http.StatusUnauthorized, ""},
		{"basic scheme", "/api/jobs", "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", "/api/jobs", "Bearer bad", http.StatusUnauthorized, ""},
		{"public health", "/health", "", http.StatusOK, ""},
		{"public diagnostics", "/debug/diagnostics", "", http.StatusOK, ""},
		{"events query token", "/api/events?access_token=good", "", http.StatusOK, "user-1"},
		{"query token elsewhere", "/api/jobs?access_token=good", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Code == http.StatusUnauthorized {
				var body map[string]interface{}
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body["signed_out"] != true {
					t.Errorf("signed_out missing from %v", body)
				}
				return
			}
			if rec.Body.String() != tt.wantUser {
				t.Errorf("user = %q, want %q", rec.Body.String(), tt.wantUser)
			}
		})
	}
}

func TestDevAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	DevAuth("dev-user")(echoUser).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	if rec.Body.String() != "dev-user" {
		t.Errorf("user = %q, want dev-user", rec.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()
	Recovery(discard)(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequestLoggerKeepsFlusher(t *testing.T) {
	var flushable bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, flushable = w.(http.Flusher)
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	RequestLogger(discard)(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if !flushable {
		t.Error("wrapped writer does not implement http.Flusher")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewUserRateLimiter(2)
	handler := DevAuth("user-1")(RateLimit(limiter, discard)(echoUser))

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/postings/parse", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	if !limiter.Allow("user-2") {
		t.Error("second user shares the first user's bucket")
	}
	if !NewUserRateLimiter(0).Allow("anyone") {
		t.Error("zero limit should disable limiting")
	}
}
