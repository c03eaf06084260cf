package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/config"
	"github.com/crucial707/hci-inventory/internal/db"
	"github.com/crucial707/hci-inventory/internal/ingest"
	"github.com/crucial707/hci-inventory/internal/notify"
	"github.com/crucial707/hci-inventory/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		db.Pool{MaxOpenConns: cfg.DBMaxOpenConns, MaxIdleConns: cfg.DBMaxIdleConns},
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if cfg.MigrateOnStart {
		if err := db.Run(cfg.DatabaseURL()); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	if cfg.SeedUsers {
		tokens := auth.NewTokens([]byte(cfg.JWTSecret), time.Hour)
		n, err := auth.NewService(database, tokens).SeedDefaultUsers(ctx)
		if err != nil {
			slog.Error("seeding default users failed", "error", err)
			os.Exit(1)
		}
		if n > 0 {
			slog.Warn("created default users; change their passwords", "count", n)
		}
	}

	notifier, err := notify.New(cfg)
	if err != nil {
		slog.Error("email transport unavailable", "error", err)
		os.Exit(1)
	}
	slog.Info("email transport selected", "transport", cfg.EmailTransport)

	if cfg.IngestFile != "" {
		startIngestion(ctx, ingest.NewEngine(database), cfg)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg, notifier),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server LAST
	errCh := make(chan error, 1)
	go func() {
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			slog.Info("starting HTTPS server", "port", cfg.Port)
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		slog.Info("starting server", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}

// startIngestion loads cfg.IngestFile once and, with INGEST_CRON set, keeps
// re-ingesting it whenever the file changes.
func startIngestion(ctx context.Context, engine *ingest.Engine, cfg config.Config) {
	job := &scheduler.FileJob{Path: filepath.Clean(cfg.IngestFile), Ingester: engine}
	res, _, err := job.Run(ctx)
	if err != nil {
		slog.Error("startup ingestion failed", "path", job.Path, "error", err)
	} else {
		slog.Info("startup ingestion complete", "path", job.Path, "added", res.Added, "updated", res.Updated)
	}

	if cfg.IngestCron == "" {
		return
	}
	if _, err := scheduler.Start(ctx, cfg.IngestCron, job); err != nil {
		slog.Error("ingestion schedule not started", "error", err)
	}
}

func setupLogger(format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
