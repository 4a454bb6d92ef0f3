package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestOptionalStringTriState(t *testing.T) {
	var body struct {
		Description OptionalString `json:"description"`
		FolderID    OptionalString `json:"folder_id"`
		URL         OptionalString `json:"url"`
	}
	if err := json.Unmarshal([]byte(`{"description": null, "folder_id": "f1"}`), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !body.Description.Present || body.Description.Value != nil {
		t.Errorf("null field = %+v, want present with nil value", body.Description)
	}
	if !body.FolderID.Present || body.FolderID.Value == nil || *body.FolderID.Value != "f1" {
		t.Errorf("set field = %+v", body.FolderID)
	}
	if body.URL.Present {
		t.Errorf("absent field = %+v, want not present", body.URL)
	}

	opt := body.FolderID.Optional()
	if !opt.Present || *opt.Value != "f1" {
		t.Errorf("Optional() = %+v", opt)
	}
}

func TestOptionalQuery(t *testing.T) {
	values, _ := url.ParseQuery("folder_id=null&other=abc&empty=")
	tests := []struct {
		key         string
		wantPresent bool
		wantValue   string
	}{
		{"folder_id", true, ""},
		{"empty", true, ""},
		{"other", true, "abc"},
		{"missing", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := OptionalQuery(values, tt.key)
			if got.Present != tt.wantPresent {
				t.Fatalf("Present = %v, want %v", got.Present, tt.wantPresent)
			}
			value := ""
			if got.Value != nil {
				value = *got.Value
			}
			if value != tt.wantValue {
				t.Errorf("Value = %q, want %q", value, tt.wantValue)
			}
		})
	}
}

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusUnauthorized, "sign in", map[string]interface{}{"signed_out": true})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["signed_out"] != true || body["detail"] != "sign in" || body["title"] != "Unauthorized" {
		t.Errorf("body = %v", body)
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/jobs?page=2&bad=x", nil)

	page, err := QueryInt(r, "page")
	if err != nil || page == nil || *page != 2 {
		t.Errorf("QueryInt(page) = %v, %v", page, err)
	}
	if missing, err := QueryInt(r, "missing"); missing != nil || err != nil {
		t.Errorf("QueryInt(missing) = %v, %v", missing, err)
	}
	if _, err := QueryInt(r, "bad"); err == nil {
		t.Error("QueryInt(bad) error = nil, want validation error")
	}
}
