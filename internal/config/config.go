// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// DBMaxConns bounds the shared connection pool. Pool exhaustion
	// surfaces as a store timeout, not unbounded queuing. Defaults to 10.
	DBMaxConns int

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps incoming request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// JWTSigningKey verifies bearer tokens issued by the upstream
	// identity service. Required.
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// PlannerURL and PlannerAPIKey locate the itinerary-generation
	// service. Empty PlannerURL enables the static fallback planner.
	PlannerURL    string
	PlannerAPIKey string

	// ImageAPIURL and ImageAPIKey locate the photo lookup service.
	// Empty ImageAPIURL disables image enrichment.
	ImageAPIURL    string
	ImageAPIKey    string
	ImageCacheSize int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		JWTIssuer:      getEnv("JWT_ISSUER", "planora-identity"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "planora-api"),
		PlannerURL:     os.Getenv("PLANNER_URL"),
		PlannerAPIKey:  os.Getenv("PLANNER_API_KEY"),
		ImageAPIURL:    os.Getenv("IMAGE_API_URL"),
		ImageAPIKey:    os.Getenv("IMAGE_API_KEY"),
		ImageCacheSize: getEnvInt("IMAGE_CACHE_SIZE", 256),
		DBMaxConns:     getEnvInt("DB_MAX_CONNS", 10),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.JWTSigningKey == "" {
		missing = append(missing, "JWT_SIGNING_KEY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses an integer environment variable, falling back on
// absent, empty, or unparseable values.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
