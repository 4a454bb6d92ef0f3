// Package stats computes dashboard statistics over an already folder-scoped
// job list. Every function is pure; the current time is passed in.
//
// Top-N lists group by exact string match. An empty value (no location, say)
// is not a group; whitespace and case are significant.
package stats

import (
	"math"
	"sort"
	"time"

	"applytrack/internal/domain/models"
)

const (
	monthLabel = "2006-01"
	dayLabel   = models.DateLayout
)

// Total is the number of jobs
func Total(jobs []models.Job) int {
	return len(jobs)
}

// CountByStatus counts jobs per status. Every status has an entry.
func CountByStatus(jobs []models.Job) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, job := range jobs {
		counts[job.Status]++
	}
	return counts
}

// InterviewedCount counts jobs whose sticky had_interview flag is set
func InterviewedCount(jobs []models.Job) int {
	n := 0
	for _, job := range jobs {
		if job.HadInterview {
			n++
		}
	}
	return n
}

// ResponseRate is the rounded percentage of jobs that ever reached an interview
func ResponseRate(jobs []models.Job) int {
	if len(jobs) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(InterviewedCount(jobs)) / float64(len(jobs))))
}

func rate(jobs []models.Job, keep func(models.Status) bool) float64 {
	if len(jobs) == 0 {
		return 0
	}
	n := 0
	for _, job := range jobs {
		if keep(job.Status) {
			n++
		}
	}
	return 100 * float64(n) / float64(len(jobs))
}

// SuccessRate is the percentage of jobs at Offer
func SuccessRate(jobs []models.Job) float64 {
	return rate(jobs, func(s models.Status) bool { return s == models.StatusOffer })
}

// RejectionRate is the percentage of jobs at Closed
func RejectionRate(jobs []models.Job) float64 {
	return rate(jobs, func(s models.Status) bool { return s == models.StatusClosed })
}

// PendingRate is the percentage of jobs still in progress.
// Success, rejection and pending rates sum to 100 for a non-empty list.
func PendingRate(jobs []models.Job) float64 {
	return rate(jobs, models.Status.IsPending)
}

// AverageTimeToStatus averages, over jobs whose timeline reached target, the
// whole days (floored) from date_applied to the first such event. Jobs that
// never reached target are left out. An event dated before date_applied counts as 0 days.
func AverageTimeToStatus(jobs []models.Job, target models.Status) float64 {
	total, n := 0, 0
	for _, job := range jobs {
		applied, ok := job.AppliedOn()
		if !ok {
			continue
		}
		ev, ok := job.FirstEvent(target)
		if !ok {
			continue
		}
		days := int(math.Floor(ev.Timestamp.Sub(applied).Hours() / 24))
		if days < 0 {
			days = 0
		}
		total += days
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// topN counts keys in first-seen order, then stable-sorts by count descending.
func topN(jobs []models.Job, n int, keys func(models.Job) []string) []models.KeyCount {
	counts := []models.KeyCount{}
	index := map[string]int{}
	for _, job := range jobs {
		for _, key := range keys(job) {
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				counts[i].Count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, models.KeyCount{Key: key, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// TopCompanies groups by exact company name
func TopCompanies(jobs []models.Job, n int) []models.KeyCount {
	return topN(jobs, n, func(j models.Job) []string { return []string{j.Company} })
}

// TopLocations groups by exact location
func TopLocations(jobs []models.Job, n int) []models.KeyCount {
	return topN(jobs, n, func(j models.Job) []string { return []string{j.Location} })
}

// TopSkills counts each skill once per job
func TopSkills(jobs []models.Job, n int) []models.KeyCount {
	return topN(jobs, n, func(j models.Job) []string {
		seen := make(map[string]bool, len(j.Skills))
		unique := make([]string, 0, len(j.Skills))
		for _, skill := range j.Skills {
			if !seen[skill] {
				seen[skill] = true
				unique = append(unique, skill)
			}
		}
		return unique
	})
}

// MonthlyHistogram returns exactly months consecutive calendar-month buckets
// ending with the month of now. Empty months are included.
func MonthlyHistogram(jobs []models.Job, months int, now time.Time) []models.HistogramBucket {
	if months <= 0 {
		return []models.HistogramBucket{}
	}

	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]models.HistogramBucket, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		start := current.AddDate(0, i-months+1, 0)
		buckets[i] = models.HistogramBucket{Label: start.Format(monthLabel), Start: start}
		index[buckets[i].Label] = i
	}

	for _, job := range jobs {
		applied, ok := job.AppliedOn()
		if !ok {
			continue
		}
		if i, ok := index[applied.Format(monthLabel)]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// DailyHistogram returns exactly days buckets ending with today (the date of now).
func DailyHistogram(jobs []models.Job, days int, now time.Time) []models.HistogramBucket {
	if days <= 0 {
		return []models.HistogramBucket{}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	buckets := make([]models.HistogramBucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		start := today.AddDate(0, 0, i-days+1)
		buckets[i] = models.HistogramBucket{Label: start.Format(dayLabel), Start: start}
		index[buckets[i].Label] = i
	}

	for _, job := range jobs {
		if i, ok := index[job.DateApplied]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// Options sizes a Summary
type Options struct {
	Months int
	Days   int
	Top    int
}

// Summarize bundles every statistic for one job list
func Summarize(jobs []models.Job, opts Options, now time.Time) *models.StatsSummary {
	return &models.StatsSummary{
		Total:                  Total(jobs),
		ByStatus:               CountByStatus(jobs),
		ResponseRate:           ResponseRate(jobs),
		SuccessRate:            SuccessRate(jobs),
		RejectionRate:          RejectionRate(jobs),
		PendingRate:            PendingRate(jobs),
		InterviewedCount:       InterviewedCount(jobs),
		AverageDaysToInterview: AverageTimeToStatus(jobs, models.StatusInterview),
		AverageDaysToOffer:     AverageTimeToStatus(jobs, models.StatusOffer),
		TopCompanies:           TopCompanies(jobs, opts.Top),
		TopLocations:           TopLocations(jobs, opts.Top),
		TopSkills:              TopSkills(jobs, opts.Top),
		Monthly:                MonthlyHistogram(jobs, opts.Months, now),
		Daily:                  DailyHistogram(jobs, opts.Days, now),
		GeneratedAt:            now,
	}
}
