package models

import (
	"fmt"
	"strings"
)

// Status is the stage an application is in.
type Status string

const (
	StatusApplied          Status = "Applied"
	StatusOnlineAssessment Status = "Online Assessment"
	StatusInterview        Status = "Interview"
	StatusOffer            Status = "Offer"
	StatusClosed           Status = "Closed"
)

// AllStatuses lists the statuses in pipeline order.
var AllStatuses = []Status{
	StatusApplied,
	StatusOnlineAssessment,
	StatusInterview,
	StatusOffer,
	StatusClosed,
}

// statusAliases maps lower-cased spellings seen in clients and imports to a status.
var statusAliases = map[string]Status{
	"applied":           StatusApplied,
	"application":       StatusApplied,
	"online assessment": StatusOnlineAssessment,
	"online_assessment": StatusOnlineAssessment,
	"oa":                StatusOnlineAssessment,
	"assessment":        StatusOnlineAssessment,
	"interview":         StatusInterview,
	"interviewing":      StatusInterview,
	"offer":             StatusOffer,
	"accepted":          StatusOffer,
	"closed":            StatusClosed,
	"rejected":          StatusClosed,
	"declined":          StatusClosed,
	"withdrawn":         StatusClosed,
}

// ParseStatus normalizes raw into one of the five statuses.
func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// Valid reports whether s is one of the five canonical statuses.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsPending is true while the application is still in progress.
func (s Status) IsPending() bool {
	return s == StatusApplied || s == StatusOnlineAssessment || s == StatusInterview
}

// CountsAsResponse is true for statuses that set the sticky hadInterview flag.
func (s Status) CountsAsResponse() bool {
	return s == StatusInterview || s == StatusOffer
}

// StatusFilter is either a Status or the sentinel StatusFilterAll.
type StatusFilter string

const StatusFilterAll StatusFilter = "All"

// ParseStatusFilter accepts "", "all" (any case) or any status alias.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, string(StatusFilterAll)) {
		return StatusFilterAll, nil
	}
	s, err := ParseStatus(trimmed)
	if err != nil {
		return "", err
	}
	return StatusFilter(s), nil
}

// Matches reports whether a job with status s passes the filter.
func (f StatusFilter) Matches(s Status) bool {
	return f == StatusFilterAll || Status(f) == s
}
