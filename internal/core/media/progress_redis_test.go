// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/testsupport"
)

func TestRedisProgress(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	progress := media.NewRedisProgress(client, testsupport.Logger())
	ctx := context.Background()

	observer := progress.For("p1")
	observer.Progress(ctx, "video", 40)
	observer.Progress(ctx, "video", 100)
	observer.Progress(ctx, "audio.hi", 10)

	values, err := progress.Read(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"video": 100, "audio.hi": 10}, values)
	assert.Equal(t, constants.UploadProgressTTL, server.TTL(constants.RedisPrefixUploadProgress+"p1"))

	require.NoError(t, progress.Reset(ctx, "p1"))
	values, err = progress.Read(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, values)
}
