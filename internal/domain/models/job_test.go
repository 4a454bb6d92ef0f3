package models

import (
	"testing"
	"time"
)

func TestDeriveHadInterview(t *testing.T) {
	applied := []StatusEvent{{Status: StatusApplied}}
	interviewed := []StatusEvent{{Status: StatusApplied}, {Status: StatusInterview}, {Status: StatusClosed}}

	tests := []struct {
		name     string
		prev     bool
		status   Status
		timeline []StatusEvent
		want     bool
	}{
		{"fresh application", false, StatusApplied, applied, false},
		{"assessment only", false, StatusOnlineAssessment, append(applied, StatusEvent{Status: StatusOnlineAssessment}), false},
		{"current status interview", false, StatusInterview, applied, true},
		{"offer", false, StatusOffer, applied, true},
		{"closed after interview", false, StatusClosed, interviewed, true},
		{"sticky previous flag", true, StatusClosed, applied, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveHadInterview(tt.prev, tt.status, tt.timeline); got != tt.want {
				t.Errorf("DeriveHadInterview() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDateApplied(t *testing.T) {
	now := time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: "2026-10-15"},
		{raw: "2025-09-01", want: "2025-09-01"},
		{raw: "2025-09-01T10:00:00Z", want: "2025-09-01"},
		{raw: "09/01/2025", want: "2025-09-01"},
		{raw: "yesterday", wantErr: true},
		{raw: "2025-13-40", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeDateApplied(tt.raw, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeDateApplied(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeDateApplied(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFirstEvent(t *testing.T) {
	first := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	job := Job{Timeline: []StatusEvent{
		{Status: StatusApplied, Timestamp: first.Add(-24 * time.Hour)},
		{Status: StatusInterview, Timestamp: first},
		{Status: StatusInterview, Timestamp: first.Add(48 * time.Hour)},
	}}

	ev, ok := job.FirstEvent(StatusInterview)
	if !ok || !ev.Timestamp.Equal(first) {
		t.Errorf("FirstEvent(Interview) = %v, %v; want timestamp %v", ev.Timestamp, ok, first)
	}
	if _, ok := job.FirstEvent(StatusOffer); ok {
		t.Error("FirstEvent(Offer) found an event that does not exist")
	}
}
