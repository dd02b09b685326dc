// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publishing_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/core/publishing"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
)

func TestRedisUploadLock(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock := publishing.NewRedisUploadLock(client)
	ctx := context.Background()

	token, acquired, err := lock.Acquire(ctx, "p1")
	require.NoError(t, err)
	require.True(t, acquired)
	assert.NotEmpty(t, token)
	assert.Equal(t, constants.UploadLockTTL, server.TTL(constants.RedisPrefixUploadLock+"p1"))

	_, again, err := lock.Acquire(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, again, "second acquire must fail while held")

	held, err := lock.Held(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, held)

	// A stale token leaves the current holder in place
	require.NoError(t, lock.Release(ctx, "p1", "not-the-owner"))
	held, err = lock.Held(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, lock.Release(ctx, "p1", token))
	held, err = lock.Held(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, held)
}

func TestRedisUploadLock_Expires(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock := publishing.NewRedisUploadLock(client)
	ctx := context.Background()

	_, acquired, err := lock.Acquire(ctx, "p1")
	require.NoError(t, err)
	require.True(t, acquired)

	server.FastForward(constants.UploadLockTTL)

	_, acquired, err = lock.Acquire(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, acquired, "an expired lock can be taken again")
}
