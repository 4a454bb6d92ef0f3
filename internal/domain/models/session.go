package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPageSize is the page size used when none has been chosen.
const DefaultPageSize = 10

// PageSize is either a positive number of items per page or "all".
type PageSize struct {
	All bool
	N   int
}

// PageSizeAll returns the "all" sentinel.
func PageSizeAll() PageSize { return PageSize{All: true} }

// PageSizeOf returns a fixed page size.
func PageSizeOf(n int) PageSize { return PageSize{N: n} }

// Valid reports whether the size is "all" or a positive count.
func (p PageSize) Valid() bool { return p.All || p.N > 0 }

func (p PageSize) String() string {
	if p.All {
		return "all"
	}
	return strconv.Itoa(p.N)
}

// ParsePageSize accepts "all" (any case) or a positive integer.
func ParsePageSize(raw string) (PageSize, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "all") {
		return PageSizeAll(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return PageSize{}, fmt.Errorf("page_size must be a positive integer or \"all\"")
	}
	return PageSizeOf(n), nil
}

func (p PageSize) MarshalJSON() ([]byte, error) {
	if p.All {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(p.N)), nil
}

func (p *PageSize) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n <= 0 {
			return fmt.Errorf("page_size must be positive, got %d", n)
		}
		*p = PageSizeOf(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("page_size must be a number or \"all\"")
	}
	parsed, err := ParsePageSize(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Session is the per-user view state: selected folder, search, filter and paging.
type Session struct {
	CurrentFolderID *string      `json:"current_folder_id"`
	SearchTerm      string       `json:"search_term"`
	StatusFilter    StatusFilter `json:"status_filter"`
	PageSize        PageSize     `json:"page_size"`
	CurrentPage     int          `json:"current_page"`
}

// DefaultSession is the state of a user who has never changed anything.
func DefaultSession() Session {
	return Session{
		StatusFilter: StatusFilterAll,
		PageSize:     PageSizeOf(DefaultPageSize),
		CurrentPage:  1,
	}
}

// Normalize replaces invalid values with defaults.
func (s *Session) Normalize() {
	filter, err := ParseStatusFilter(string(s.StatusFilter))
	if err != nil {
		filter = StatusFilterAll
	}
	s.StatusFilter = filter
	if !s.PageSize.Valid() {
		s.PageSize = PageSizeOf(DefaultPageSize)
	}
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
}
