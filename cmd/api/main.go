// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the site CMS HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build repositories for the selected storage driver (PostgreSQL + migrations, or memory).
//  4. Connect to Redis when configured (public slug cache).
//  5. Configure the object store when a bucket is set (media uploads).
//  6. Load the identity provider's public key.
//  7. Wire HTTP handlers and start the server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/sitecms/internal/api"
	"github.com/taibuivan/sitecms/internal/core/content"
	"github.com/taibuivan/sitecms/internal/core/media"
	"github.com/taibuivan/sitecms/internal/platform/config"
	"github.com/taibuivan/sitecms/internal/platform/constants"
	"github.com/taibuivan/sitecms/internal/platform/migration"
	"github.com/taibuivan/sitecms/internal/platform/objectstore"
	pgstore "github.com/taibuivan/sitecms/internal/platform/postgres"
	redisstore "github.com/taibuivan/sitecms/internal/platform/redis"
	"github.com/taibuivan/sitecms/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	// Root context lives as long as the process; startup gets its own deadline.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	var checks []api.DependencyCheck

	// ── 3. Storage ────────────────────────────────────────────────────────
	var contentRepository content.Repository
	var mediaRepository media.Repository

	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("postgres_pool_closing")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		contentRepository = content.NewPostgresRepository(pool)
		mediaRepository = media.NewPostgresRepository(pool)
		checks = append(checks, api.DependencyCheck{
			Name:  "postgres",
			Probe: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		})

	case config.StorageDriverMemory:
		log.Warn("memory_storage_selected", slog.String("note", "data is lost on restart"))
		contentRepository = content.NewMemoryRepository()
		mediaRepository = media.NewMemoryRepository()
	}

	// ── 4. Redis slug cache ───────────────────────────────────────────────
	var contentOptions []content.Option
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		contentOptions = append(contentOptions, content.WithCache(content.NewRedisSlugCache(rdb, cfg.SlugCacheTTL, log)))
		checks = append(checks, api.DependencyCheck{
			Name:  "redis",
			Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	// ── 5. Object storage ─────────────────────────────────────────────────
	var mediaOptions []media.Option
	if cfg.UploadsEnabled() {
		store, err := objectstore.NewS3Store(startupCtx, objectstore.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}, log)
		must(log, err, "configure object store")

		mediaOptions = append(mediaOptions, media.WithObjectStore(store))
		checks = append(checks, api.DependencyCheck{Name: "objectstore", Probe: store.Ping})
	}

	// ── 6. Token verification ─────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, cfg.AuthIssuer)
	must(log, err, "load token verification key")

	// ── 7. Domain wiring ──────────────────────────────────────────────────
	contentService := content.NewService(contentRepository, log, contentOptions...)
	mediaService := media.NewService(mediaRepository, log, mediaOptions...)

	liveness, readiness := api.NewHealthHandlers(checks, log)

	server := api.NewServer(rootCtx, cfg, log, verifier, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Content:   content.NewHandler(contentService),
		Media:     media.NewHandler(mediaService),
	})

	// ── 8. Graceful shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		return
	}

	log.Info("server_stopped")
}

// newLogger builds the process-wide JSON logger tagged with the app name.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
