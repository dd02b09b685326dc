// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/taibuivan/stonemedia/internal/core/build"
	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/core/publishing"
	"github.com/taibuivan/stonemedia/internal/platform/config"
	"github.com/taibuivan/stonemedia/internal/platform/logging"
	pgstore "github.com/taibuivan/stonemedia/internal/platform/postgres"
	redisstore "github.com/taibuivan/stonemedia/internal/platform/redis"
	"github.com/taibuivan/stonemedia/internal/users/auth"
)

// backends are the stores and clients commands operate on. Tests preset
// them; otherwise they are opened from configuration for each command.
type backends struct {
	projects     project.Repository
	allowlist    auth.Allowlist
	locks        publishing.UploadLock
	progress     publishing.ProgressStore
	builder      publishing.Builder
	pollInterval time.Duration
	pollTimeout  time.Duration
}

type commandContext struct {
	debug bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	backends *backends
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

// log writes to stderr so command output on stdout stays parseable.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		c.logger, _ = logging.New(logging.Options{App: "cmsctl", Debug: c.debug, Stdout: os.Stderr})
	})
	return c.logger
}

/*
withBackends runs fn against live stores.

Description: Postgres and Redis are opened from configuration and closed
when fn returns. Preset backends are used as-is.
*/
func (c *commandContext) withBackends(ctx context.Context, fn func(*backends) error) error {
	if c.backends != nil {
		return fn(c.backends)
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, c.log())
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	client, err := redisstore.NewClient(ctx, cfg.RedisURL, c.log())
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer client.Close()

	return fn(&backends{
		projects:     project.NewPostgresRepository(pool),
		allowlist:    auth.NewRedisAllowlist(client),
		locks:        publishing.NewRedisUploadLock(client),
		progress:     media.NewRedisProgress(client, c.log()),
		builder:      build.NewClient(cfg.HLSBuilderURL, cfg.BuildSecret, nil, c.log()),
		pollInterval: cfg.BuildPollInterval,
		pollTimeout:  cfg.BuildPollTimeout,
	})
}

func (b *backends) projectService(logger *slog.Logger) *project.Service {
	return project.NewService(b.projects, logger)
}

// authService has no identity verifier or token issuer; the CLI only edits the allowlist.
func (b *backends) authService(logger *slog.Logger) *auth.Service {
	return auth.NewService(auth.UnconfiguredVerifier{}, b.allowlist, nil, logger)
}

// workflow can trigger builds but not upload sources.
func (b *backends) workflow(logger *slog.Logger) *publishing.Workflow {
	return publishing.NewWorkflow(b.projects, nil, b.builder, b.locks, b.progress, logger)
}

func (b *backends) poller(logger *slog.Logger) *build.Poller {
	return build.NewPoller(b.projectService(logger), b.pollInterval, b.pollTimeout)
}
