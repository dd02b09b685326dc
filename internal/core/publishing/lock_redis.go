// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publishing

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
)

// releaseScript deletes the lock only if it still holds the caller's token,
// so an expired and re-acquired lock is never released by its old owner.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisUploadLock implements [UploadLock] with SET NX and a TTL.
type RedisUploadLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUploadLock creates a Redis backed upload lock.
func NewRedisUploadLock(client *redis.Client) *RedisUploadLock {
	return &RedisUploadLock{client: client, ttl: constants.UploadLockTTL}
}

func lockKey(projectID string) string {
	return constants.RedisPrefixUploadLock + projectID
}

/*
Acquire takes the per-project upload lock.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - string: Ownership token to pass to Release
  - bool: False when another upload holds the lock
  - error: Connectivity errors
*/
func (lock *RedisUploadLock) Acquire(context context.Context, projectID string) (string, bool, error) {
	token, err := sec.GenerateSecureToken(16)
	if err != nil {
		return "", false, err
	}

	acquired, err := lock.client.SetNX(context, lockKey(projectID), token, lock.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis_upload_lock_acquire_failed: %w", err)
	}
	return token, acquired, nil
}

// Release frees the lock if token still owns it.
func (lock *RedisUploadLock) Release(context context.Context, projectID, token string) error {
	if err := releaseScript.Run(context, lock.client, []string{lockKey(projectID)}, token).Err(); err != nil {
		return fmt.Errorf("redis_upload_lock_release_failed: %w", err)
	}
	return nil
}

// Held reports whether an upload is in flight for the project.
func (lock *RedisUploadLock) Held(context context.Context, projectID string) (bool, error) {
	count, err := lock.client.Exists(context, lockKey(projectID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_upload_lock_check_failed: %w", err)
	}
	return count > 0, nil
}
