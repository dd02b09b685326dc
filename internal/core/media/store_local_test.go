// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := media.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var reported []int64
	err = store.Put(ctx, "sources/demo/video.mp4", "video/mp4", strings.NewReader("frames"), 6, func(written int64) {
		reported = append(reported, written)
	})
	require.NoError(t, err)
	require.NotEmpty(t, reported)
	assert.Equal(t, int64(6), reported[len(reported)-1])

	// Overwrite in place
	require.NoError(t, store.Put(ctx, "sources/demo/video.mp4", "video/mp4", strings.NewReader("new"), 3, nil))

	reader, err := store.Open(ctx, "sources/demo/video.mp4")
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestLocalStore_Errors(t *testing.T) {
	store, err := media.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Open(ctx, "hls/missing/master.m3u8")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	err = store.Put(ctx, "../escape.txt", "text/plain", strings.NewReader("x"), 1, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
