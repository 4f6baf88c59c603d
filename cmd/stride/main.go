package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	stridehttp "github.com/stridehq/stride/internal/adapter/http"
	"github.com/stridehq/stride/internal/adapter/llm"
	"github.com/stridehq/stride/internal/adapter/postgres"
	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/middleware"
	"github.com/stridehq/stride/internal/resilience"
	"github.com/stridehq/stride/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
	)

	ctx := context.Background()

	// --- Infrastructure ---

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	// Run migrations
	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	// --- Services ---
	store := postgres.NewStore(pool)

	llmClient := llm.NewClient(cfg.LLM)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	taskSvc := service.NewTaskService(store)
	goalSvc := service.NewGoalService(store)
	velocitySvc := service.NewVelocityService(store, cfg.Analytics)
	forecastSvc := service.NewForecastService(store, cfg.Analytics)
	trendSvc := service.NewTrendService(store, cfg.Analytics)
	breakdownSvc := service.NewBreakdownService(store, llmClient, log)

	// --- HTTP ---
	handlers := &stridehttp.Handlers{
		Tasks:     taskSvc,
		Goals:     goalSvc,
		Velocity:  velocitySvc,
		Forecast:  forecastSvc,
		Trends:    trendSvc,
		Breakdown: breakdownSvc,
		LLM:       llmClient,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(stridehttp.CORS(cfg.Server.CORSOrigin))
	r.Use(stridehttp.SecurityHeaders)
	r.Use(stridehttp.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.OwnerID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	// API routes
	stridehttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
