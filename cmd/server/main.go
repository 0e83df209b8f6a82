package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/BearingSpec/internal/audit"
	"github.com/JonMunkholm/BearingSpec/internal/config"
	"github.com/JonMunkholm/BearingSpec/internal/core"
	_ "github.com/JonMunkholm/BearingSpec/internal/core/catalog" // Register the taxonomy
	"github.com/JonMunkholm/BearingSpec/internal/logging"
	"github.com/JonMunkholm/BearingSpec/internal/web"
)

func main() {
	// Load .env file if it exists; real environment variables win
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	// Optional export log
	var recorder core.ExportRecorder = core.NopRecorder{}
	if cfg.Audit.Enabled() {
		pool, err := audit.Connect(ctx, cfg.Audit)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if u, err := url.Parse(cfg.Audit.URL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}

		pg := audit.NewPostgresRecorder(pool, cfg.Audit.WriteTimeout)
		if err := pg.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare export log", "error", err)
			os.Exit(1)
		}
		recorder = pg
	} else {
		slog.Info("export log disabled, DATABASE_URL not set")
	}

	tax := core.RegisteredTaxonomy()
	slog.Info("taxonomy registered", "categories", core.CategoryCount())

	limiter := core.NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWaitTime)
	store := core.NewSessionStore(tax, core.StoreOptions{
		Session: core.SessionOptions{
			WordLimit: cfg.Quota.WordLimit,
			Limiter:   limiter,
			Recorder:  recorder,
		},
		IdleTimeout: cfg.Session.IdleTimeout,
		MaxSessions: cfg.Session.MaxSessions,
	})

	server := web.NewServer(store, web.Options{
		CookieName:        cfg.Session.CookieName,
		SecureCookie:      cfg.Session.SecureCookie,
		RequestTimeout:    cfg.Server.RequestTimeout,
		RateLimitEnabled:  cfg.Rate.Enabled,
		RequestsPerMinute: cfg.Rate.RequestsPerMinute,
		ExportPerMinute:   cfg.Rate.ExportLimit,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go store.StartSweeper(jobCtx, cfg.Session.SweepInterval)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Downloads still being built finish before the process exits
		if active := limiter.ActiveCount(); active > 0 {
			slog.Info("waiting for exports to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("exports did not complete in time", "error", err)
			} else {
				slog.Info("all exports completed")
			}
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		cancelJobs()
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
