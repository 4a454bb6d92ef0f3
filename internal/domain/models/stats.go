package models

import "time"

// KeyCount is one row of a top-N list (company, location or skill).
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// HistogramBucket counts applications whose date_applied falls in [Start, next bucket).
type HistogramBucket struct {
	Label string    `json:"label"` // "2026-10" for months, "2026-10-15" for days
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// StatsSummary is the dashboard view of one folder (or all applications).
type StatsSummary struct {
	Total                  int               `json:"total"`
	ByStatus               map[Status]int    `json:"by_status"`
	ResponseRate           int               `json:"response_rate"` // percent, rounded
	SuccessRate            float64           `json:"success_rate"`
	RejectionRate          float64           `json:"rejection_rate"`
	PendingRate            float64           `json:"pending_rate"`
	InterviewedCount       int               `json:"interviewed_count"`
	AverageDaysToInterview float64           `json:"average_days_to_interview"`
	AverageDaysToOffer     float64           `json:"average_days_to_offer"`
	TopCompanies           []KeyCount        `json:"top_companies"`
	TopLocations           []KeyCount        `json:"top_locations"`
	TopSkills              []KeyCount        `json:"top_skills"`
	Monthly                []HistogramBucket `json:"monthly"`
	Daily                  []HistogramBucket `json:"daily"`
	GeneratedAt            time.Time         `json:"generated_at"`
}
