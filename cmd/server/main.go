package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"applytrack/internal/auth"
	"applytrack/internal/config"
	"applytrack/internal/handler"
	"applytrack/internal/middleware"
	"applytrack/internal/service"
	"applytrack/internal/service/changefeed"
	"applytrack/internal/service/posting"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := cfg.OpenLogFile(time.Now())
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage_backend", cfg.StorageBackend,
	)

	ctx := context.Background()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.close()

	// Posting extraction
	prompt, err := posting.LoadPrompt()
	if err != nil {
		log.Fatalf("Failed to load extraction prompt: %v", err)
	}
	extractor, err := posting.NewExtractor(ctx, cfg, prompt, logger)
	if err != nil {
		log.Fatalf("Failed to set up extraction provider: %v", err)
	}
	logger.Info("extraction provider ready", "provider", extractor.Name(), "model", cfg.ExtractionModel)

	// Services
	feed := changefeed.NewBroker(logger)
	folderService := service.NewFolderService(store.folders, store.jobs, store.prefs, store.txManager, feed, logger)
	jobService := service.NewJobService(store.jobs, store.folders, store.prefs, store.txManager, feed, logger)
	sessionService := service.NewSessionService(store.folders, store.prefs, logger)
	statsService := service.NewStatsService(jobService, store.prefs, logger)
	diagnosticsService := service.NewDiagnosticsService(store.health, logger)
	postingService := posting.NewService(extractor, prompt, logger)

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	jobHandler := handler.NewJobHandler(jobService, folderService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)
	postingHandler := handler.NewPostingHandler(postingService, logger)
	diagnosticsHandler := handler.NewDiagnosticsHandler(diagnosticsService, cfg.DiagnosticsSecret, logger)
	eventsHandler := handler.NewEventsHandler(feed, nil, logger)

	if cfg.DiagnosticsSecret == "" {
		logger.Warn("DIAGNOSTICS_SECRET not set; /debug/diagnostics rejects every request")
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", diagnosticsHandler.HealthCheck)
	mux.HandleFunc("GET /debug/diagnostics", diagnosticsHandler.Diagnostics)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("POST /api/folders/default", folderHandler.EnsureDefaultFolder) // Must come before {id} routes
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/move-jobs", folderHandler.MoveJobs)
	mux.HandleFunc("POST /api/folders/{id}/select", folderHandler.SelectFolder)

	// Job routes
	mux.HandleFunc("GET /api/jobs", jobHandler.ListJobs)
	mux.HandleFunc("POST /api/jobs", jobHandler.CreateJob)
	mux.HandleFunc("DELETE /api/jobs", jobHandler.ClearJobs)
	mux.HandleFunc("GET /api/jobs/export", jobHandler.ExportJobs)
	mux.HandleFunc("GET /api/jobs/{id}", jobHandler.GetJob)
	mux.HandleFunc("PATCH /api/jobs/{id}", jobHandler.UpdateJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", jobHandler.DeleteJob)

	// Session and stats
	mux.HandleFunc("GET /api/session", sessionHandler.GetSession)
	mux.HandleFunc("PATCH /api/session", sessionHandler.UpdateSession)
	mux.HandleFunc("GET /api/stats", statsHandler.GetStats)

	// Posting extraction, rate limited per user
	parseLimiter := middleware.NewUserRateLimiter(cfg.ParseRatePerMinute)
	mux.Handle("POST /api/postings/parse",
		middleware.RateLimit(parseLimiter, logger)(http.HandlerFunc(postingHandler.ParsePosting)))

	// Change feed (SSE)
	mux.HandleFunc("GET /api/events", eventsHandler.StreamEvents)

	// Build middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Logging → Recovery → Auth → Routes
	switch {
	case cfg.AuthEnabled():
		jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		handler = middleware.AuthMiddleware(jwtVerifier, logger)(handler)
	case cfg.Environment != "prod" && cfg.DevUserID != "":
		logger.Warn("DEV AUTH: every request is signed in as DEV_USER_ID (NEVER use in production!)", "user_id", cfg.DevUserID)
		handler = middleware.DevAuth(cfg.DevUserID)(handler)
	default:
		log.Fatalf("SUPABASE_URL is required (or DEV_USER_ID outside production)")
	}
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
	})
	handler = corsHandler.Handler(handler)

	streamCtx, cancelStreams := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return streamCtx },
	}
	// Open SSE streams only end when their request context does
	server.RegisterOnShutdown(cancelStreams)

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
