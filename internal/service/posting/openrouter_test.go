package posting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenRouterExtractor(t *testing.T) {
	prompt, err := LoadPrompt()
	if err != nil {
		t.Fatalf("LoadPrompt() error = %v", err)
	}

	var gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		content := `{\"role\":\"SWE Intern\",\"company\":\"Acme\",\"skills\":[\"Go\"],\"remote\":false}`
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + content + `"}}]}`))
	}))
	defer server.Close()

	extractor, err := NewOpenRouterExtractor("test-key", "openai/gpt-4o-mini", server.URL, prompt)
	if err != nil {
		t.Fatalf("NewOpenRouterExtractor() error = %v", err)
	}

	got, err := extractor.Extract(context.Background(), "SWE Intern at Acme")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Role != "SWE Intern" || got.Company != "Acme" || len(got.Skills) != 1 {
		t.Errorf("Extract() = %+v", got)
	}
	if gotAuth != "Bearer test-key" || gotModel != "openai/gpt-4o-mini" {
		t.Errorf("request auth %q model %q", gotAuth, gotModel)
	}
}

func TestOpenRouterExtractorSurfacesAPIError(t *testing.T) {
	prompt, _ := LoadPrompt()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Insufficient credits"}}`))
	}))
	defer server.Close()

	extractor, _ := NewOpenRouterExtractor("test-key", "openai/gpt-4o-mini", server.URL, prompt)
	_, err := extractor.Extract(context.Background(), "posting")
	if err == nil || !strings.Contains(err.Error(), "Insufficient credits") {
		t.Errorf("Extract() error = %v, want provider message", err)
	}
}
