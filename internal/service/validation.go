package service

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"applytrack/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// asValidationError converts ozzo-validation output into a domain.ValidationError.
// The first failing field (in key order) is reported as Field.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		field := ""
		for key := range fieldErrs {
			if field == "" || key < field {
				field = key
			}
		}
		return &domain.ValidationError{Message: err.Error(), Field: field}
	}
	return &domain.ValidationError{Message: err.Error()}
}

// notBlank rejects strings that are empty after trimming
func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// httpURL accepts absolute http and https URLs
func httpURL(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return fmt.Errorf("must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
}

// cleanSkills trims entries and drops blanks. Order and duplicates are kept.
func cleanSkills(skills []string) []string {
	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			cleaned = append(cleaned, skill)
		}
	}
	return cleaned
}

// trimmedPtr trims *s and maps blank to nil
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
