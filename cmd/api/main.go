// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the studio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Open blob storage and the identity provider.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/stonemedia/internal/api"
	"github.com/taibuivan/stonemedia/internal/core/build"
	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/core/playback"
	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/core/publishing"
	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
	"github.com/taibuivan/stonemedia/internal/platform/config"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/platform/firebase"
	"github.com/taibuivan/stonemedia/internal/platform/logging"
	"github.com/taibuivan/stonemedia/internal/platform/migration"
	pgstore "github.com/taibuivan/stonemedia/internal/platform/postgres"
	redisstore "github.com/taibuivan/stonemedia/internal/platform/redis"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
	"github.com/taibuivan/stonemedia/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log, _ := logging.New(logging.Options{App: constants.AppName})
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug || cfg.LogFile != "" {
		var closer io.Closer
		log, closer = logging.New(logging.Options{App: constants.AppName, Debug: cfg.Debug, File: cfg.LogFile})
		defer closer.Close()
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Storage & Identity ─────────────────────────────────────────────
	var firebaseApp *firebase.App
	if cfg.UsesFirebase() {
		firebaseApp, err = firebase.NewApp(startupCtx, firebase.Config{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsPath: cfg.FirebaseCredentialsPath,
			StorageBucket:   cfg.StorageBucket,
		})
		must(log, err, "initialize firebase")
	}

	var (
		blobs      media.BlobStore
		mediaFiles http.Handler
	)
	switch cfg.StorageDriver {
	case config.StorageFirebase:
		bucket, err := firebaseApp.Bucket(startupCtx)
		must(log, err, "open storage bucket")
		blobs = media.NewGCSStore(bucket)
	default:
		local, err := media.NewLocalStore(cfg.StorageLocalDir)
		must(log, err, "open local storage")
		blobs = local
		mediaFiles = http.FileServer(http.Dir(cfg.StorageLocalDir))
	}

	var verifier auth.IdentityVerifier = auth.UnconfiguredVerifier{}
	if cfg.FirebaseProjectID != "" {
		client, err := firebaseApp.Auth(startupCtx)
		must(log, err, "initialize firebase auth")
		verifier = auth.NewFirebaseVerifier(client)
	} else {
		log.Warn("identity_provider_not_configured")
	}

	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(verifier, auth.NewRedisAllowlist(rdb), jwtSvc, log)
	must(log, authService.Seed(startupCtx, cfg.AdminEmails), "seed admin allowlist")

	projectRepository := project.NewPostgresRepository(pool)
	projectService := project.NewService(projectRepository, log)

	buildClient := build.NewClient(cfg.HLSBuilderURL, cfg.BuildSecret, nil, log)
	if !buildClient.Configured() {
		log.Warn("build_service_not_configured")
	}

	workflow := publishing.NewWorkflow(
		projectRepository,
		media.NewUploader(blobs, log),
		buildClient,
		publishing.NewRedisUploadLock(rdb),
		media.NewRedisProgress(rdb, log),
		log,
	)
	poller := build.NewPoller(projectService, cfg.BuildPollInterval, cfg.BuildPollTimeout)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		BuildServiceConfigured: buildClient.Configured(),
	}, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Taxonomy:   taxonomy.NewHandler(),
		Project:    project.NewHandler(projectService),
		Publishing: publishing.NewHandler(workflow, poller, cfg.MaxUploadBytes, log),
		Playback:   playback.NewHandler(playback.NewService(projectService, blobs, cfg.MediaBaseURL, log)),
		Media:      mediaFiles,
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
