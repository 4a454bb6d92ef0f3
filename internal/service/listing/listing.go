// Package listing holds the pure functions behind the job list view:
// search, status filter, sort and pagination.
package listing

import (
	"sort"
	"strings"

	"applytrack/internal/domain/models"
)

// Sort keys accepted by Apply
const (
	SortLastUpdated = "last_updated"
	SortDateApplied = "date_applied"
	SortCompany     = "company"
)

// Page is one slice of a filtered job list
type Page struct {
	Items      []models.Job
	Page       int
	TotalPages int
	TotalItems int
}

// Query describes one list request after session fallback
type Query struct {
	SearchTerm string
	Status     models.StatusFilter
	PageSize   models.PageSize
	Page       int
	Sort       string
}

// Search keeps jobs whose role, company, notes or any skill contains term,
// ignoring case. A blank term returns jobs unchanged.
func Search(term string, jobs []models.Job) []models.Job {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return jobs
	}

	matched := []models.Job{}
	for _, job := range jobs {
		if matches(job, term) {
			matched = append(matched, job)
		}
	}
	return matched
}

func matches(job models.Job, term string) bool {
	for _, field := range []string{job.Role, job.Company, job.Notes} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, skill := range job.Skills {
		if strings.Contains(strings.ToLower(skill), term) {
			return true
		}
	}
	return false
}

// FilterByStatus keeps jobs with exactly the given status; "All" is the identity.
func FilterByStatus(filter models.StatusFilter, jobs []models.Job) []models.Job {
	if filter == models.StatusFilterAll || filter == "" {
		return jobs
	}

	matched := []models.Job{}
	for _, job := range jobs {
		if filter.Matches(job.Status) {
			matched = append(matched, job)
		}
	}
	return matched
}

// TotalPages is ceil(count/size), or 1 for the "all" page size.
func TotalPages(count int, size models.PageSize) int {
	if size.All {
		return 1
	}
	if size.N <= 0 {
		return 0
	}
	return (count + size.N - 1) / size.N
}

// ClampPage limits page to [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the page-th slice (1-based) of jobs. Callers clamp page first;
// a page past the end yields no items.
func Paginate(jobs []models.Job, size models.PageSize, page int) Page {
	result := Page{
		Page:       page,
		TotalPages: TotalPages(len(jobs), size),
		TotalItems: len(jobs),
		Items:      []models.Job{},
	}

	if size.All {
		if page == 1 {
			result.Items = jobs
		}
		return result
	}
	if size.N <= 0 || page < 1 {
		return result
	}

	start := (page - 1) * size.N
	if start >= len(jobs) {
		return result
	}
	end := start + size.N
	if end > len(jobs) {
		end = len(jobs)
	}
	result.Items = jobs[start:end]
	return result
}

// SortJobs orders jobs in place. Unknown keys sort by last_updated, newest first.
func SortJobs(jobs []models.Job, key string) {
	switch key {
	case SortDateApplied:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].DateApplied > jobs[j].DateApplied
		})
	case SortCompany:
		sort.SliceStable(jobs, func(i, j int) bool {
			return strings.ToLower(jobs[i].Company) < strings.ToLower(jobs[j].Company)
		})
	default:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].LastUpdated.After(jobs[j].LastUpdated)
		})
	}
}

// Apply runs search, status filter, sort, clamp and pagination, in that order.
// Pagination always comes last so page counts reflect the filtered set.
func Apply(jobs []models.Job, q Query) Page {
	filtered := FilterByStatus(q.Status, Search(q.SearchTerm, jobs))

	sorted := make([]models.Job, len(filtered))
	copy(sorted, filtered)
	SortJobs(sorted, q.Sort)

	size := q.PageSize
	if !size.Valid() {
		size = models.PageSizeOf(models.DefaultPageSize)
	}
	page := ClampPage(q.Page, TotalPages(len(sorted), size))
	return Paginate(sorted, size, page)
}
