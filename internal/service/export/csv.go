// Package export writes applications out in spreadsheet-friendly formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"applytrack/internal/domain/models"
	"applytrack/internal/service/listing"
)

// Header is the first CSV row
var Header = []string{
	"Role",
	"Company",
	"Location",
	"Status",
	"Date Applied",
	"Had Interview",
	"Remote",
	"Experience Required",
	"Skills",
	"Folder",
	"Job Posting URL",
	"Notes",
	"Last Updated",
}

// WriteCSV writes one row per job, most recently applied first. folderNames
// maps folder IDs to display names; unfiled jobs get an empty folder column.
func WriteCSV(w io.Writer, jobs []models.Job, folderNames map[string]string) error {
	sorted := make([]models.Job, len(jobs))
	copy(sorted, jobs)
	listing.SortJobs(sorted, listing.SortDateApplied)

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, job := range sorted {
		folder := ""
		if job.FolderID != nil {
			folder = folderNames[*job.FolderID]
		}
		url := ""
		if job.JobPostingURL != nil {
			url = *job.JobPostingURL
		}

		record := []string{
			job.Role,
			job.Company,
			job.Location,
			string(job.Status),
			job.DateApplied,
			strconv.FormatBool(job.HadInterview),
			strconv.FormatBool(job.Remote),
			job.ExperienceRequired,
			strings.Join(job.Skills, "; "),
			folder,
			url,
			job.Notes,
			job.LastUpdated.UTC().Format(time.RFC3339),
		}
		for i := range record {
			record[i] = neutralize(record[i])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write job %s: %w", job.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// neutralize stops spreadsheet apps from evaluating user text as a formula
func neutralize(field string) string {
	if field == "" {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + field
	}
	return field
}

// Filename names an export for the given folder (empty = every folder)
func Filename(folderName string, now time.Time) string {
	base := "applications"
	if name := slug(folderName); name != "" {
		base += "-" + name
	}
	return base + "-" + now.Format(models.DateLayout) + ".csv"
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
