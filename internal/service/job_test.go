package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
)

func TestStatusTimelineLifecycle(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	folder := ts.createFolder(t, "Fall 2025")
	job := ts.createJob(t, folder.ID, "SWE Intern", "Acme", "")

	if job.Status != models.StatusApplied || len(job.Timeline) != 1 || job.HadInterview {
		t.Fatalf("new job = status %q, timeline %d, had_interview %v", job.Status, len(job.Timeline), job.HadInterview)
	}
	if job.ExperienceRequired != models.DefaultExperience {
		t.Errorf("ExperienceRequired = %q, want %q", job.ExperienceRequired, models.DefaultExperience)
	}

	interview, err := ts.jobs.UpdateJob(ctx, job.ID, &services.UpdateJobRequest{
		UserID:     testUser,
		Status:     strPtr("Interview"),
		StatusNote: strPtr("phone screen"),
	})
	if err != nil {
		t.Fatalf("UpdateJob(Interview) error = %v", err)
	}
	if len(interview.Timeline) != 2 || !interview.HadInterview {
		t.Fatalf("after Interview: timeline %d, had_interview %v", len(interview.Timeline), interview.HadInterview)
	}
	if note := interview.Timeline[1].Note; note == nil || *note != "phone screen" {
		t.Errorf("event note = %v, want phone screen", note)
	}

	// resubmitting the same status appends nothing
	same, err := ts.jobs.UpdateJob(ctx, job.ID, &services.UpdateJobRequest{UserID: testUser, Status: strPtr("interview")})
	if err != nil {
		t.Fatalf("UpdateJob(same status) error = %v", err)
	}
	if len(same.Timeline) != 2 {
		t.Errorf("same status appended an event: timeline %d", len(same.Timeline))
	}

	closed, err := ts.jobs.UpdateJob(ctx, job.ID, &services.UpdateJobRequest{UserID: testUser, Status: strPtr("Closed")})
	if err != nil {
		t.Fatalf("UpdateJob(Closed) error = %v", err)
	}
	if len(closed.Timeline) != 3 || !closed.HadInterview || closed.Status != models.StatusClosed {
		t.Errorf("after Closed: status %q, timeline %d, had_interview %v", closed.Status, len(closed.Timeline), closed.HadInterview)
	}

	stored, err := ts.jobs.GetJob(ctx, job.ID, testUser)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if len(stored.Timeline) != 3 || !stored.HadInterview {
		t.Errorf("stored job: timeline %d, had_interview %v", len(stored.Timeline), stored.HadInterview)
	}
	want := []models.Status{models.StatusApplied, models.StatusInterview, models.StatusClosed}
	for i, ev := range stored.Timeline {
		if ev.Status != want[i] {
			t.Errorf("timeline[%d] = %q, want %q", i, ev.Status, want[i])
		}
	}
}

func TestCreateJobWithNonAppliedStatus(t *testing.T) {
	ts := newTestServices(t)
	folder := ts.createFolder(t, "Spring 2026")

	tests := []struct {
		status        string
		want          models.Status
		wantInterview bool
	}{
		{"Online Assessment", models.StatusOnlineAssessment, false},
		{"Interview", models.StatusInterview, true},
		{"Offer", models.StatusOffer, true},
		{"Closed", models.StatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			job := ts.createJob(t, folder.ID, "Backend Engineer", "Globex", tt.status)
			if job.Status != tt.want {
				t.Errorf("Status = %q, want %q", job.Status, tt.want)
			}
			if len(job.Timeline) != 1 || job.Timeline[0].Status != models.StatusApplied {
				t.Errorf("timeline = %+v, want a single Applied event", job.Timeline)
			}
			if job.HadInterview != tt.wantInterview {
				t.Errorf("HadInterview = %v, want %v", job.HadInterview, tt.wantInterview)
			}

			stored, err := ts.jobs.GetJob(context.Background(), job.ID, testUser)
			if err != nil {
				t.Fatalf("GetJob() error = %v", err)
			}
			if len(stored.Timeline) != 1 {
				t.Errorf("stored timeline = %d events, want 1", len(stored.Timeline))
			}
		})
	}
}

func TestCreateJobValidation(t *testing.T) {
	ts := newTestServices(t)
	folder := ts.createFolder(t, "Fall 2025")

	tests := []struct {
		name  string
		req   services.CreateJobRequest
		field string
	}{
		{
			name:  "missing folder",
			req:   services.CreateJobRequest{UserID: testUser, Role: "SWE", Company: "Acme"},
			field: "folder_id",
		},
		{
			name:  "blank role",
			req:   services.CreateJobRequest{UserID: testUser, FolderID: &folder.ID, Role: "   ", Company: "Acme"},
			field: "role",
		},
		{
			name:  "blank company",
			req:   services.CreateJobRequest{UserID: testUser, FolderID: &folder.ID, Role: "SWE"},
			field: "company",
		},
		{
			name:  "unknown status",
			req:   services.CreateJobRequest{UserID: testUser, FolderID: &folder.ID, Role: "SWE", Company: "Acme", Status: "Ghosted"},
			field: "status",
		},
		{
			name:  "bad date",
			req:   services.CreateJobRequest{UserID: testUser, FolderID: &folder.ID, Role: "SWE", Company: "Acme", DateApplied: "last tuesday"},
			field: "date_applied",
		},
		{
			name:  "bad url",
			req:   services.CreateJobRequest{UserID: testUser, FolderID: &folder.ID, Role: "SWE", Company: "Acme", JobPostingURL: strPtr("ftp://example.com")},
			field: "job_posting_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.jobs.CreateJob(context.Background(), &tt.req)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("CreateJob() error = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestCreateJobUnknownFolder(t *testing.T) {
	ts := newTestServices(t)
	_, err := ts.jobs.CreateJob(context.Background(), &services.CreateJobRequest{
		UserID:   testUser,
		FolderID: strPtr("missing"),
		Role:     "SWE",
		Company:  "Acme",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("CreateJob() error = %v, want ErrNotFound", err)
	}
}

func TestCreateJobNormalizesInput(t *testing.T) {
	ts := newTestServices(t)
	folder := ts.createFolder(t, "Fall 2025")

	job, err := ts.jobs.CreateJob(context.Background(), &services.CreateJobRequest{
		UserID:      testUser,
		FolderID:    &folder.ID,
		Role:        "  Data Engineer ",
		Company:     " Initech",
		Skills:      []string{"Go", " go ", "", "Go", "SQL"},
		DateApplied: "10/01/2025",
	})
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	if job.Role != "Data Engineer" || job.Company != "Initech" {
		t.Errorf("role/company not trimmed: %q / %q", job.Role, job.Company)
	}
	wantSkills := []string{"Go", "go", "Go", "SQL"}
	if !reflect.DeepEqual(job.Skills, wantSkills) {
		t.Errorf("Skills = %q, want %q", job.Skills, wantSkills)
	}
	if job.DateApplied != "2025-10-01" {
		t.Errorf("DateApplied = %q, want 2025-10-01", job.DateApplied)
	}
}

func TestUpdateJobPartialFields(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	folderA := ts.createFolder(t, "Fall 2025")
	folderB := ts.createFolder(t, "Spring 2026")
	job := ts.createJob(t, folderA.ID, "SWE", "Acme", "")

	updated, err := ts.jobs.UpdateJob(ctx, job.ID, &services.UpdateJobRequest{
		UserID:        testUser,
		Notes:         strPtr("referral from Sam"),
		FolderID:      services.Set(folderB.ID),
		JobPostingURL: services.Set("https://acme.example/jobs/1"),
	})
	if err != nil {
		t.Fatalf("UpdateJob() error = %v", err)
	}
	if updated.Role != "SWE" || updated.Company != "Acme" {
		t.Errorf("untouched fields changed: %q / %q", updated.Role, updated.Company)
	}
	if updated.Notes != "referral from Sam" || updated.FolderID == nil || *updated.FolderID != folderB.ID {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Timeline) != 1 {
		t.Errorf("non-status update appended events: %d", len(updated.Timeline))
	}

	cleared, err := ts.jobs.UpdateJob(ctx, job.ID, &services.UpdateJobRequest{
		UserID:        testUser,
		JobPostingURL: services.Null[string](),
	})
	if err != nil {
		t.Fatalf("UpdateJob(clear url) error = %v", err)
	}
	if cleared.JobPostingURL != nil {
		t.Errorf("JobPostingURL = %v, want nil", *cleared.JobPostingURL)
	}

	if _, err := ts.jobs.UpdateJob(ctx, job.ID, &services.UpdateJobRequest{UserID: testUser}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty update error = %v, want ErrValidation", err)
	}
	if _, err := ts.jobs.UpdateJob(ctx, "missing", &services.UpdateJobRequest{UserID: testUser, Notes: strPtr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown job error = %v, want ErrNotFound", err)
	}
}

func TestJobsAreScopedToUser(t *testing.T) {
	ts := newTestServices(t)
	folder := ts.createFolder(t, "Fall 2025")
	job := ts.createJob(t, folder.ID, "SWE", "Acme", "")

	if _, err := ts.jobs.GetJob(context.Background(), job.ID, "someone-else"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetJob() as other user error = %v, want ErrNotFound", err)
	}
	if err := ts.jobs.DeleteJob(context.Background(), job.ID, "someone-else"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteJob() as other user error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAndClearAll(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	folder := ts.createFolder(t, "Fall 2025")
	first := ts.createJob(t, folder.ID, "SWE", "Acme", "")
	ts.createJob(t, folder.ID, "SRE", "Globex", "Interview")
	ts.createJob(t, folder.ID, "PM", "Initech", "")

	if err := ts.jobs.DeleteJob(ctx, first.ID, testUser); err != nil {
		t.Fatalf("DeleteJob() error = %v", err)
	}
	if _, err := ts.jobs.GetJob(ctx, first.ID, testUser); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetJob() after delete error = %v, want ErrNotFound", err)
	}

	result, err := ts.jobs.ClearAll(ctx, testUser)
	if err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	if result.Jobs != 2 || result.Events != 2 {
		t.Errorf("ClearAll() = %+v, want 2 jobs and 2 events", result)
	}

	jobs, err := ts.jobs.ListJobs(ctx, testUser, nil)
	if err != nil || len(jobs) != 0 {
		t.Errorf("ListJobs() after clear = %d jobs, err %v", len(jobs), err)
	}
}

func TestQueryJobsUsesSessionAndParameters(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	fall := ts.createFolder(t, "Fall 2025")
	spring := ts.createFolder(t, "Spring 2026")

	for i, company := range []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli"} {
		status := ""
		if i%2 == 0 {
			status = "Interview"
		}
		ts.createJob(t, fall.ID, "SWE", company, status)
	}
	ts.createJob(t, spring.ID, "SWE", "Pied Piper", "")

	// first folder created is the session selection
	page, err := ts.jobs.QueryJobs(ctx, &services.QueryJobsRequest{UserID: testUser})
	if err != nil {
		t.Fatalf("QueryJobs() error = %v", err)
	}
	if page.TotalItems != 5 || page.Page != 1 || page.PageSize != "10" || page.HasMore {
		t.Errorf("session page = %+v", page)
	}

	size := models.PageSizeOf(2)
	pageNum := 2
	page, err = ts.jobs.QueryJobs(ctx, &services.QueryJobsRequest{
		UserID:   testUser,
		PageSize: &size,
		Page:     &pageNum,
		Sort:     "company",
	})
	if err != nil {
		t.Fatalf("QueryJobs(page 2) error = %v", err)
	}
	if page.TotalPages != 3 || len(page.Items) != 2 || !page.HasMore {
		t.Fatalf("page 2 = %+v", page)
	}
	if page.Items[0].Company != "Hooli" || page.Items[1].Company != "Initech" {
		t.Errorf("page 2 companies = %q, %q", page.Items[0].Company, page.Items[1].Company)
	}

	page, err = ts.jobs.QueryJobs(ctx, &services.QueryJobsRequest{
		UserID: testUser,
		Status: strPtr("Interview"),
	})
	if err != nil {
		t.Fatalf("QueryJobs(status) error = %v", err)
	}
	if page.TotalItems != 3 {
		t.Errorf("Interview filter matched %d, want 3", page.TotalItems)
	}

	page, err = ts.jobs.QueryJobs(ctx, &services.QueryJobsRequest{
		UserID:     testUser,
		FolderID:   services.Null[string](),
		SearchTerm: strPtr("piper"),
	})
	if err != nil {
		t.Fatalf("QueryJobs(all folders) error = %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].Company != "Pied Piper" {
		t.Errorf("search across folders = %+v", page)
	}

	if _, err := ts.jobs.QueryJobs(ctx, &services.QueryJobsRequest{UserID: testUser, Status: strPtr("Ghosted")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad status filter error = %v, want ErrValidation", err)
	}
}

func TestListJobsDegradesOnBackendFailure(t *testing.T) {
	ts := newTestServices(t)
	folder := ts.createFolder(t, "Fall 2025")
	ts.createJob(t, folder.ID, "SWE", "Acme", "")

	ts.store.FailWith = domain.NewBackendError("storage", errors.New("connection refused"))

	jobs, err := ts.jobs.ListJobs(context.Background(), testUser, nil)
	if err != nil {
		t.Fatalf("ListJobs() error = %v, want degraded empty list", err)
	}
	if len(jobs) != 0 {
		t.Errorf("ListJobs() = %d jobs, want 0", len(jobs))
	}

	page, err := ts.jobs.QueryJobs(context.Background(), &services.QueryJobsRequest{UserID: testUser})
	if err != nil {
		t.Fatalf("QueryJobs() error = %v", err)
	}
	if page.TotalItems != 0 || page.Page != 1 {
		t.Errorf("degraded page = %+v", page)
	}

	// writes surface the failure
	_, err = ts.jobs.CreateJob(context.Background(), &services.CreateJobRequest{
		UserID: testUser, FolderID: &folder.ID, Role: "SWE", Company: "Acme",
	})
	if !errors.Is(err, domain.ErrBackend) {
		t.Errorf("CreateJob() error = %v, want ErrBackend", err)
	}
}

func TestJobWritesPublishChanges(t *testing.T) {
	ts := newTestServices(t)
	folder := ts.createFolder(t, "Fall 2025")

	events, unsubscribe := ts.feed.Subscribe(testUser)
	defer unsubscribe()

	job := ts.createJob(t, folder.ID, "SWE", "Acme", "")
	if err := ts.jobs.DeleteJob(context.Background(), job.ID, testUser); err != nil {
		t.Fatalf("DeleteJob() error = %v", err)
	}

	for _, want := range []models.ChangeType{models.ChangeJobCreated, models.ChangeJobDeleted} {
		ev := <-events
		if ev.Type != want || ev.ID != job.ID {
			t.Errorf("event = %+v, want %s for %s", ev, want, job.ID)
		}
	}
}
