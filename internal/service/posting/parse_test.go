package posting

import (
	"strings"
	"testing"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErr    bool
		wantRole   string
		wantSkills []string
		wantRemote bool
	}{
		{
			name:       "plain json",
			raw:        `{"role":"SWE Intern","company":"Acme","skills":["Go","SQL"],"remote":true}`,
			wantRole:   "SWE Intern",
			wantSkills: []string{"Go", "SQL"},
			wantRemote: true,
		},
		{
			name:       "fenced with prose",
			raw:        "Here you go:\n```json\n{\"role\": \"Data Engineer\", \"company\": \"Globex\", \"skills\": []}\n```",
			wantRole:   "Data Engineer",
			wantSkills: []string{},
		},
		{
			name:       "skills as comma string and remote as text",
			raw:        `{"role":"SRE","company":"Initech","skills":"Go, Kubernetes","remote":"Yes"}`,
			wantRole:   "SRE",
			wantSkills: []string{"Go", "Kubernetes"},
			wantRemote: true,
		},
		{name: "no object", raw: "I could not read that posting.", wantErr: true},
		{name: "broken json", raw: `{"role": "SWE", "company": }`, wantErr: true},
		{name: "missing role and company", raw: `{"location":"Remote"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseResponse() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if got.Role != tt.wantRole || got.Remote != tt.wantRemote {
				t.Errorf("got role %q remote %v, want %q %v", got.Role, got.Remote, tt.wantRole, tt.wantRemote)
			}
			if strings.Join(got.Skills, "|") != strings.Join(tt.wantSkills, "|") {
				t.Errorf("Skills = %q, want %q", got.Skills, tt.wantSkills)
			}
		})
	}
}

func TestLoadPrompt(t *testing.T) {
	p, err := LoadPrompt()
	if err != nil {
		t.Fatalf("LoadPrompt() error = %v", err)
	}
	if p.Defaults.ExperienceRequired != "Not specified" || p.Defaults.MaxSkills != 15 {
		t.Errorf("Defaults = %+v", p.Defaults)
	}

	msg := p.UserMessage("Senior Gopher at Acme")
	if !strings.Contains(msg, "Senior Gopher at Acme") || !strings.Contains(msg, "at most 15") {
		t.Errorf("UserMessage() did not fill the template:\n%s", msg)
	}
	if strings.Contains(msg, "{{") {
		t.Errorf("UserMessage() left a placeholder:\n%s", msg)
	}
}
