package posting

import (
	"errors"
	"strings"

	"applytrack/internal/domain/models"

	"github.com/tidwall/gjson"
)

var errNoJSON = errors.New("response did not contain a JSON object")

// ParseResponse reads the provider's reply into an extraction. Replies are often
// wrapped in a markdown fence or surrounded by prose, so the outermost object is used.
func ParseResponse(raw string) (*models.PostingExtraction, error) {
	body := outermostObject(raw)
	if body == "" || !gjson.Valid(body) {
		return nil, errNoJSON
	}

	doc := gjson.Parse(body)
	if !doc.Get("role").Exists() && !doc.Get("company").Exists() {
		return nil, errors.New("response is missing role and company")
	}

	result := &models.PostingExtraction{
		Role:               doc.Get("role").String(),
		Company:            doc.Get("company").String(),
		Location:           doc.Get("location").String(),
		ExperienceRequired: doc.Get("experience_required").String(),
		Remote:             remoteValue(doc.Get("remote")),
		Notes:              doc.Get("notes").String(),
		Skills:             []string{},
	}

	skills := doc.Get("skills")
	switch {
	case skills.IsArray():
		for _, s := range skills.Array() {
			result.Skills = append(result.Skills, s.String())
		}
	case skills.Type == gjson.String:
		// some models return "Go, SQL, Kubernetes"
		for _, s := range strings.Split(skills.String(), ",") {
			result.Skills = append(result.Skills, strings.TrimSpace(s))
		}
	}

	return result, nil
}

// remoteValue accepts booleans and the common string spellings
func remoteValue(v gjson.Result) bool {
	if v.Type == gjson.String {
		switch strings.ToLower(strings.TrimSpace(v.String())) {
		case "true", "yes", "remote", "fully remote":
			return true
		}
		return false
	}
	return v.Bool()
}

func outermostObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
