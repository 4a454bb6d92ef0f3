package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresJobRepository implements repositories.JobRepository.
// Jobs live in one table and their timelines in a child table with ON DELETE CASCADE.
type PostgresJobRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(config *RepositoryConfig) repositories.JobRepository {
	return &PostgresJobRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const jobColumns = `id, user_id, folder_id, role, company, location, experience_required, skills,
	remote, notes, status, date_applied, had_interview, job_posting_url, created_at, last_updated`

func scanJob(row pgx.Row, job *models.Job) error {
	var applied time.Time
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.FolderID,
		&job.Role,
		&job.Company,
		&job.Location,
		&job.ExperienceRequired,
		&job.Skills,
		&job.Remote,
		&job.Notes,
		&job.Status,
		&applied,
		&job.HadInterview,
		&job.JobPostingURL,
		&job.CreatedAt,
		&job.LastUpdated,
	)
	if err != nil {
		return err
	}
	job.DateApplied = applied.Format(models.DateLayout)
	if job.Skills == nil {
		job.Skills = []string{}
	}
	job.Timeline = []models.StatusEvent{}
	return nil
}

// dateArg converts the stored YYYY-MM-DD string to a DATE parameter
func dateArg(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{
			Message: fmt.Sprintf("date_applied %q is not a valid date", s),
			Field:   "date_applied",
		}
	}
	return t, nil
}

func skillsArg(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

// Create inserts the job and its initial timeline
func (r *PostgresJobRepository) Create(ctx context.Context, job *models.Job) error {
	applied, err := dateArg(job.DateApplied)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, role, company, location, experience_required, skills,
			remote, notes, status, date_applied, had_interview, job_posting_url, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, r.tables.Jobs)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		job.UserID,
		job.FolderID,
		job.Role,
		job.Company,
		job.Location,
		job.ExperienceRequired,
		skillsArg(job.Skills),
		job.Remote,
		job.Notes,
		job.Status,
		applied,
		job.HadInterview,
		job.JobPostingURL,
		job.CreatedAt,
		job.LastUpdated,
	).Scan(&job.ID)
	if err != nil {
		if isPgForeignKeyError(err) || isPgInvalidTextError(err) {
			id := ""
			if job.FolderID != nil {
				id = *job.FolderID
			}
			return folderNotFound(id)
		}
		return storageError("create job", err)
	}

	for i := range job.Timeline {
		job.Timeline[i].JobID = job.ID
		if err := r.AppendEvent(ctx, job.UserID, &job.Timeline[i]); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a job and its timeline
func (r *PostgresJobRepository) GetByID(ctx context.Context, id, userID string) (*models.Job, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, jobColumns, r.tables.Jobs)

	var job models.Job
	executor := GetExecutor(ctx, r.pool)
	if err := scanJob(executor.QueryRow(ctx, query, id, userID), &job); err != nil {
		if isPgNoRowsError(err) || isPgInvalidTextError(err) {
			return nil, jobNotFound(id)
		}
		return nil, storageError("get job", err)
	}

	eventsQuery := fmt.Sprintf(`
		SELECT id, job_id, status, timestamp, note
		FROM %s
		WHERE job_id = $1
		ORDER BY timestamp, seq
	`, r.tables.StatusEvents)

	rows, err := executor.Query(ctx, eventsQuery, id)
	if err != nil {
		return nil, storageError("get job timeline", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev models.StatusEvent
		if err := rows.Scan(&ev.ID, &ev.JobID, &ev.Status, &ev.Timestamp, &ev.Note); err != nil {
			return nil, storageError("scan status event", err)
		}
		job.Timeline = append(job.Timeline, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate status events", err)
	}

	return &job, nil
}

// List retrieves the user's jobs, optionally limited to one folder, with timelines
func (r *PostgresJobRepository) List(ctx context.Context, userID string, folderID *string) ([]models.Job, error) {
	where := "j.user_id = $1"
	args := []any{userID}
	if folderID != nil {
		where += " AND j.folder_id = $2"
		args = append(args, *folderID)
	}

	columns := "j." + strings.Join(strings.Fields(strings.ReplaceAll(jobColumns, ",", " ")), ", j.")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s j
		WHERE %s
	`, columns, r.tables.Jobs, where)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		if isPgInvalidTextError(err) {
			return []models.Job{}, nil
		}
		return nil, storageError("list jobs", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	index := map[string]int{}
	for rows.Next() {
		var job models.Job
		if err := scanJob(rows, &job); err != nil {
			return nil, storageError("scan job", err)
		}
		index[job.ID] = len(jobs)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate jobs", err)
	}
	if len(jobs) == 0 {
		return jobs, nil
	}

	eventsQuery := fmt.Sprintf(`
		SELECT e.id, e.job_id, e.status, e.timestamp, e.note
		FROM %s e
		JOIN %s j ON j.id = e.job_id
		WHERE %s
		ORDER BY e.timestamp, e.seq
	`, r.tables.StatusEvents, r.tables.Jobs, where)

	eventRows, err := executor.Query(ctx, eventsQuery, args...)
	if err != nil {
		return nil, storageError("list status events", err)
	}
	defer eventRows.Close()

	for eventRows.Next() {
		var ev models.StatusEvent
		if err := eventRows.Scan(&ev.ID, &ev.JobID, &ev.Status, &ev.Timestamp, &ev.Note); err != nil {
			return nil, storageError("scan status event", err)
		}
		if i, ok := index[ev.JobID]; ok {
			jobs[i].Timeline = append(jobs[i].Timeline, ev)
		}
	}
	if err := eventRows.Err(); err != nil {
		return nil, storageError("iterate status events", err)
	}

	return jobs, nil
}

// Update saves the job row
func (r *PostgresJobRepository) Update(ctx context.Context, job *models.Job) error {
	applied, err := dateArg(job.DateApplied)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, role = $2, company = $3, location = $4, experience_required = $5,
			skills = $6, remote = $7, notes = $8, status = $9, date_applied = $10,
			had_interview = $11, job_posting_url = $12, last_updated = $13
		WHERE id = $14 AND user_id = $15
	`, r.tables.Jobs)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		job.FolderID,
		job.Role,
		job.Company,
		job.Location,
		job.ExperienceRequired,
		skillsArg(job.Skills),
		job.Remote,
		job.Notes,
		job.Status,
		applied,
		job.HadInterview,
		job.JobPostingURL,
		job.LastUpdated,
		job.ID,
		job.UserID,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			id := ""
			if job.FolderID != nil {
				id = *job.FolderID
			}
			return folderNotFound(id)
		}
		if isPgInvalidTextError(err) {
			return jobNotFound(job.ID)
		}
		return storageError("update job", err)
	}

	if result.RowsAffected() == 0 {
		return jobNotFound(job.ID)
	}

	return nil
}

// AppendEvent inserts one status event. Jobs of other users are not found.
func (r *PostgresJobRepository) AppendEvent(ctx context.Context, userID string, event *models.StatusEvent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (job_id, status, timestamp, note)
		SELECT j.id, $2, $3, $4
		FROM %s j
		WHERE j.id = $1 AND j.user_id = $5
		RETURNING id
	`, r.tables.StatusEvents, r.tables.Jobs)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		event.JobID,
		event.Status,
		event.Timestamp,
		event.Note,
		userID,
	).Scan(&event.ID)
	if err != nil {
		if isPgNoRowsError(err) || isPgForeignKeyError(err) || isPgInvalidTextError(err) {
			return jobNotFound(event.JobID)
		}
		return storageError("append status event", err)
	}

	return nil
}

// Delete removes a job; its events cascade
func (r *PostgresJobRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Jobs)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		if isPgInvalidTextError(err) {
			return jobNotFound(id)
		}
		return storageError("delete job", err)
	}

	if result.RowsAffected() == 0 {
		return jobNotFound(id)
	}

	return nil
}

// DeleteAllByUser removes every event and job the user owns.
// Callers run it inside ExecTx so the reset is all or nothing.
func (r *PostgresJobRepository) DeleteAllByUser(ctx context.Context, userID string) (int, int, error) {
	eventsQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE job_id IN (SELECT id FROM %s WHERE user_id = $1)
	`, r.tables.StatusEvents, r.tables.Jobs)

	executor := GetExecutor(ctx, r.pool)
	eventsResult, err := executor.Exec(ctx, eventsQuery, userID)
	if err != nil {
		return 0, 0, storageError("delete status events", err)
	}

	jobsQuery := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.Jobs)
	jobsResult, err := executor.Exec(ctx, jobsQuery, userID)
	if err != nil {
		return 0, 0, storageError("delete jobs", err)
	}

	return int(jobsResult.RowsAffected()), int(eventsResult.RowsAffected()), nil
}

// CountByFolder counts filed jobs per folder
func (r *PostgresJobRepository) CountByFolder(ctx context.Context, userID string) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT folder_id, COUNT(*)
		FROM %s
		WHERE user_id = $1 AND folder_id IS NOT NULL
		GROUP BY folder_id
	`, r.tables.Jobs)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, storageError("count jobs by folder", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var folderID string
		var n int
		if err := rows.Scan(&folderID, &n); err != nil {
			return nil, storageError("scan folder count", err)
		}
		counts[folderID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate folder counts", err)
	}

	return counts, nil
}

// ReassignFolder moves all jobs from one folder to another (or to unfiled)
func (r *PostgresJobRepository) ReassignFolder(ctx context.Context, userID, fromID string, toID *string) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, last_updated = NOW()
		WHERE user_id = $2 AND folder_id = $3
	`, r.tables.Jobs)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, toID, userID, fromID)
	if err != nil {
		if isPgForeignKeyError(err) || isPgInvalidTextError(err) {
			id := fromID
			if toID != nil {
				id = *toID
			}
			return 0, folderNotFound(id)
		}
		return 0, storageError("reassign jobs", err)
	}

	return int(result.RowsAffected()), nil
}

func jobNotFound(id string) error {
	return &domain.NotFoundError{
		Message:      fmt.Sprintf("job %s not found", id),
		ResourceType: "job",
		ResourceID:   id,
	}
}
