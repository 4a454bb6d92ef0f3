package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	Environment     string
	StorageBackend  string // "postgres" or "memory"
	SupabaseURL     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	AutoMigrate     bool
	// DevUserID is used as the signed-in user when no Supabase project is configured (dev only)
	DevUserID string
	// DiagnosticsSecret guards /debug/diagnostics; empty disables the endpoint
	DiagnosticsSecret string
	// Posting extraction
	ExtractionProvider string // "anthropic", "gemini", "openrouter" or "none"
	ExtractionModel    string
	AnthropicAPIKey    string
	GeminiAPIKey       string
	OpenRouterAPIKey   string
	ParseRatePerMinute int
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	provider := strings.ToLower(getEnv("EXTRACTION_PROVIDER", "anthropic"))

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		StorageBackend:     strings.ToLower(getEnv("STORAGE_BACKEND", "postgres")),
		SupabaseURL:        supabaseURL,
		SupabaseDBURL:      getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL:    jwksURL,
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        tablePrefix,
		AutoMigrate:        getEnv("AUTO_MIGRATE", getDefaultAutoMigrate(env)) == "true",
		DevUserID:          getEnv("DEV_USER_ID", ""),
		DiagnosticsSecret:  getEnv("DIAGNOSTICS_SECRET", ""),
		ExtractionProvider: provider,
		ExtractionModel:    getEnv("EXTRACTION_MODEL", defaultExtractionModel(provider)),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		OpenRouterAPIKey:   getEnv("OPENROUTER_API_KEY", ""),
		ParseRatePerMinute: getEnvInt("PARSE_RATE_PER_MINUTE", 10),
		LogDir:             getEnv("LOG_DIR", ""),
		LogMaxFiles:        getEnvInt("LOG_MAX_FILES", 5),
	}
}

// AuthEnabled reports whether bearer tokens are verified against Supabase.
func (c *Config) AuthEnabled() bool {
	return c.SupabaseJWKSURL != ""
}

// defaultExtractionModel returns a sensible model for each extraction provider
func defaultExtractionModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-2.5-flash"
	case "openrouter":
		return "openai/gpt-4o-mini"
	default:
		return "claude-haiku-4-5-20251001"
	}
}

// getDefaultAutoMigrate creates tables on startup outside production
func getDefaultAutoMigrate(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
