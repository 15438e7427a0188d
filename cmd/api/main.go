// Package main is the entry point for the Planora trip API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planora/backend/internal/config"
	"github.com/planora/backend/internal/handler"
	"github.com/planora/backend/internal/identity"
	"github.com/planora/backend/internal/images"
	"github.com/planora/backend/internal/metrics"
	"github.com/planora/backend/internal/middleware"
	"github.com/planora/backend/internal/planner"
	"github.com/planora/backend/internal/repo"
	"github.com/planora/backend/internal/service"
	"github.com/planora/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional: real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Migrations -------------------------------------------------------
	// goose needs database/sql; the pgx stdlib driver bridges to the same
	// Postgres the pool below connects to.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Database ---------------------------------------------------------
	// The pool is the only shared mutable resource in the process. It is
	// constructed here and passed down explicitly; no package imports it
	// as ambient state. Its lifecycle is this function's: opened before
	// the server accepts traffic, closed on the deferred call at shutdown.
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		slog.Error("invalid database url", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = int32(cfg.DBMaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established", "max_conns", cfg.DBMaxConns)

	// --- Collaborators ----------------------------------------------------
	var gen service.PlanGenerator = planner.Static{}
	if cfg.PlannerURL != "" {
		gen = planner.NewClient(cfg.PlannerURL, cfg.PlannerAPIKey)
	}

	var enricher service.ImageEnricher = images.Disabled{}
	if cfg.ImageAPIURL != "" {
		enricher, err = images.NewClient(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImageCacheSize)
		if err != nil {
			slog.Error("failed to create image client", "error", err)
			os.Exit(1)
		}
	}

	// --- Services ---------------------------------------------------------
	m := metrics.New()
	trips := repo.NewTripRepo(pool)
	audit := repo.NewAuditRepo(pool)
	tripService := service.NewTripService(trips, audit, gen, enricher, logger, m)
	server := handler.NewServer(tripService, logger)

	resolver := identity.NewResolver(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → logging → metrics → Recoverer
	// → CORS → body cap → identity. RealIP must run before anything that
	// records a source address; identity runs last so a 401 is still
	// logged and counted.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewRequestMetrics(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewIdentityResolver(resolver))

	r.Mount("/", server.Routes())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending embedded migrations.
func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	if len(results) > 0 {
		slog.Info("migrations applied", "count", len(results))
	}
	return nil
}
