// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stonemedia/internal/platform/constants"
)

// RedisProgress stores per-file upload progress in a hash per project,
// so the admin panel can poll it from any API instance.
type RedisProgress struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewRedisProgress creates a Redis backed progress store.
func NewRedisProgress(client *redis.Client, logger *slog.Logger) *RedisProgress {
	return &RedisProgress{client: client, logger: logger, ttl: constants.UploadProgressTTL}
}

func progressKey(projectID string) string {
	return constants.RedisPrefixUploadProgress + projectID
}

// For returns an observer writing into the hash of one project.
func (repository *RedisProgress) For(projectID string) ProgressObserver {
	return &redisObserver{repository: repository, key: progressKey(projectID)}
}

/*
Read returns the latest percentage of every file of the current upload.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - map[string]int: File key ("video", "audio.<lang>") → percent; empty when none
  - error: Connectivity errors
*/
func (repository *RedisProgress) Read(context context.Context, projectID string) (map[string]int, error) {
	values, err := repository.client.HGetAll(context, progressKey(projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_upload_progress_read_failed: %w", err)
	}

	progress := make(map[string]int, len(values))
	for file, raw := range values {
		percent, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		progress[file] = percent
	}
	return progress, nil
}

// Reset clears the progress of a project before a new upload starts.
func (repository *RedisProgress) Reset(context context.Context, projectID string) error {
	if err := repository.client.Del(context, progressKey(projectID)).Err(); err != nil {
		return fmt.Errorf("redis_upload_progress_reset_failed: %w", err)
	}
	return nil
}

type redisObserver struct {
	repository *RedisProgress
	key        string
}

// Progress writes one percentage. Failures are logged and never abort the transfer.
func (observer *redisObserver) Progress(ctx context.Context, file string, percent int) {
	client := observer.repository.client

	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, observer.key, file, percent)
		pipe.Expire(ctx, observer.key, observer.repository.ttl)
		return nil
	})
	if err != nil {
		observer.repository.logger.Warn("upload_progress_write_failed",
			slog.String("key", observer.key),
			slog.String("file", file),
			slog.String("error", err.Error()),
		)
	}
}
