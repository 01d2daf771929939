// Orderbot - food ordering fulfillment webhook
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/orderbot/internal/api"
	"github.com/ashureev/orderbot/internal/config"
	"github.com/ashureev/orderbot/internal/intent"
	"github.com/ashureev/orderbot/internal/metrics"
	"github.com/ashureev/orderbot/internal/middleware"
	"github.com/ashureev/orderbot/internal/order"
	"github.com/ashureev/orderbot/internal/session"
	"github.com/ashureev/orderbot/internal/shared"
	"github.com/ashureev/orderbot/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "db_path", cfg.DBPath)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath, store.WithRetryPolicy(shared.RetryPolicy{
		MaxRetries: cfg.Retry.DatabaseMaxRetries,
		BaseDelay:  cfg.Retry.DatabaseRetryBaseDelay,
	}))
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	if cfg.MenuPath != "" {
		n, err := store.LoadMenuFile(context.Background(), repo, cfg.MenuPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("Menu file not found, using existing menu", "path", cfg.MenuPath)
		case err != nil:
			slog.Error("Failed to load menu", "path", cfg.MenuPath, "error", err)
			os.Exit(1)
		default:
			slog.Info("Menu loaded", "path", cfg.MenuPath, "items", n)
		}
	}

	// Initialize services.
	sessions := session.NewStore()
	m := metrics.New(sessions)

	svc := order.NewService(
		order.NewAggregator(sessions),
		order.NewOrchestrator(sessions, repo, order.WithCompensation(cfg.CommitCompensate)),
		order.NewTracker(repo),
		m,
	)
	dispatcher := intent.NewDispatcher(svc, m)

	// Initialize handlers.
	webhookHandler := api.NewWebhookHandler(dispatcher)
	healthHandler := api.NewHealthHandler(repo, cfg.Timeout.HealthCheck)
	limiter := middleware.NewRateLimiter(cfg.Webhook.RateLimitRPS, cfg.Webhook.RateLimitBurst, 10*time.Minute)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Fulfillment routes.
	r.Group(func(r chi.Router) {
		if cfg.BasicAuthEnabled() {
			r.Use(chiMiddleware.BasicAuth("orderbot", map[string]string{
				cfg.Webhook.Username: cfg.Webhook.Password,
			}))
			slog.Info("Webhook basic auth enabled")
		}
		if cfg.Webhook.RateLimitRPS > 0 {
			r.Use(limiter.Handler)
		}
		webhookHandler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter.StartEviction(ctx)

	// Start idle session sweeper.
	if cfg.Session.TTL > 0 {
		session.StartSweeper(ctx, sessions, cfg.Session.TTL, cfg.Session.SweepInterval)
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
