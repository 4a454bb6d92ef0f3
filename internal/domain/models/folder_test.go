package models

import (
	"testing"
	"time"
)

func TestDefaultSeasonName(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Winter 2026"},
		{time.March, "Winter 2026"},
		{time.April, "Spring 2026"},
		{time.July, "Summer 2026"},
		{time.September, "Summer 2026"},
		{time.October, "Fall 2026"},
		{time.December, "Fall 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			got := DefaultSeasonName(time.Date(2026, tt.month, 15, 0, 0, 0, 0, time.UTC))
			if got != tt.want {
				t.Errorf("DefaultSeasonName(%s) = %q, want %q", tt.month, got, tt.want)
			}
		})
	}
}
