package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"applytrack/internal/config"
	"applytrack/internal/domain/services"
	"applytrack/internal/repository/postgres"
	"applytrack/internal/service"
	"applytrack/internal/service/changefeed"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed applications")
	clearData := flag.Bool("clear-data", false, "Delete the user's applications (keep schema and folders)")
	userID := flag.String("user", "", "User id to seed (defaults to DEV_USER_ID)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-data are disabled in production")
	}
	if cfg.SupabaseDBURL == "" {
		log.Fatal("SUPABASE_DB_URL environment variable is required")
	}

	owner := *userID
	if owner == "" {
		owner = cfg.DevUserID
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	if *dropTables {
		log.Printf("Dropping all tables (prefix: %s)...", cfg.TablePrefix)
		if err := postgres.DropAll(ctx, repoConfig); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.Migrate(ctx, repoConfig); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")
	if *schemaOnly {
		return
	}

	if owner == "" {
		log.Fatal("--user or DEV_USER_ID is required to seed applications")
	}

	folderRepo := postgres.NewFolderRepository(repoConfig)
	jobRepo := postgres.NewJobRepository(repoConfig)
	prefsRepo := postgres.NewUserPreferencesRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	feed := changefeed.NewBroker(logger)

	folderService := service.NewFolderService(folderRepo, jobRepo, prefsRepo, txManager, feed, logger)
	jobService := service.NewJobService(jobRepo, folderRepo, prefsRepo, txManager, feed, logger)

	cleared, err := jobService.ClearAll(ctx, owner)
	if err != nil {
		log.Fatalf("Failed to clear applications: %v", err)
	}
	log.Printf("Cleared %d applications (%d status events)", cleared.Jobs, cleared.Events)
	if *clearData {
		return
	}

	folder, err := folderService.EnsureDefaultFolder(ctx, owner)
	if err != nil {
		log.Fatalf("Failed to ensure default folder: %v", err)
	}

	for i, sample := range seedJobs(time.Now()) {
		req := sample.request
		req.UserID = owner
		req.FolderID = &folder.ID

		job, err := jobService.CreateJob(ctx, &req)
		if err != nil {
			log.Printf("Failed to create %s at %s: %v", req.Role, req.Company, err)
			continue
		}

		// Walk the application through later stages so the timeline is populated
		for _, status := range sample.progress {
			if _, err := jobService.UpdateJob(ctx, job.ID, &services.UpdateJobRequest{UserID: owner, Status: &status}); err != nil {
				log.Printf("Failed to move %s to %s: %v", job.ID, status, err)
				break
			}
		}
		log.Printf("Created application %d: %s at %s", i+1, req.Role, req.Company)
	}

	log.Printf("Seeding complete (folder: %s)", folder.Name)
}

type seedJob struct {
	request  services.CreateJobRequest
	progress []string
}

func seedJobs(now time.Time) []seedJob {
	day := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format("2006-01-02")
	}
	return []seedJob{
		{request: services.CreateJobRequest{Role: "Software Engineer Intern", Company: "Acme", Location: "New York, NY", Skills: []string{"Go", "PostgreSQL"}, DateApplied: day(40)},
			progress: []string{"Online Assessment", "Interview", "Offer"}},
		{request: services.CreateJobRequest{Role: "Backend Engineer", Company: "Globex", Location: "Remote", Remote: true, Skills: []string{"Go", "Kubernetes"}, DateApplied: day(25)},
			progress: []string{"Interview", "Closed"}},
		{request: services.CreateJobRequest{Role: "Site Reliability Intern", Company: "Initech", Location: "Austin, TX", Skills: []string{"Linux", "Terraform"}, DateApplied: day(12)},
			progress: []string{"Online Assessment"}},
		{request: services.CreateJobRequest{Role: "Data Engineer", Company: "Hooli", Location: "Mountain View, CA", Skills: []string{"Python", "SQL"}, DateApplied: day(5)},
			progress: []string{"Closed"}},
		{request: services.CreateJobRequest{Role: "Platform Engineer", Company: "Umbrella", Location: "Remote", Remote: true, Skills: []string{"Go", "gRPC"}, DateApplied: day(1)}},
	}
}
