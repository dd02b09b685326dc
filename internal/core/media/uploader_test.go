// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/testsupport"
)

func fileOf(name, content string) media.File {
	return media.File{
		Name:        name,
		ContentType: "application/octet-stream",
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func demoBatch() media.Batch {
	video := fileOf("demo.mp4", "0123456789")
	return media.Batch{
		Video: &video,
		Audio: []media.AudioFile{
			{Language: "hi", File: fileOf("hindi.wav", "hindi-track")},
			{Language: "bn", File: fileOf("bengali.wav", "bengali-track")},
		},
	}
}

/*
TestUploader_Upload runs the canonical scenario: one video and two audio tracks.

Video is written first, audio follows in batch order, and the returned paths
are the deterministic slug-derived ones.
*/
func TestUploader_Upload(t *testing.T) {
	blobs := testsupport.NewBlobStore()
	uploader := media.NewUploader(blobs, testsupport.Logger())
	recorder := &testsupport.ProgressRecorder{}

	sources, err := uploader.Upload(context.Background(), "demo", demoBatch(), recorder)
	require.NoError(t, err)

	assert.Equal(t, "sources/demo/video.mp4", sources.VideoPath)
	assert.Equal(t, map[string]string{
		"hi": "sources/demo/audio/hi.wav",
		"bn": "sources/demo/audio/bn.wav",
	}, sources.AudioPaths)

	assert.Equal(t, []string{
		"sources/demo/video.mp4",
		"sources/demo/audio/hi.wav",
		"sources/demo/audio/bn.wav",
	}, blobs.Puts())

	content, ok := blobs.Object("sources/demo/audio/bn.wav")
	require.True(t, ok)
	assert.Equal(t, "bengali-track", string(content))
}

/*
TestUploader_ProgressIsMonotonic checks every file reports from 0 to 100 without going back.
*/
func TestUploader_ProgressIsMonotonic(t *testing.T) {
	blobs := testsupport.NewBlobStore()
	uploader := media.NewUploader(blobs, testsupport.Logger())
	recorder := &testsupport.ProgressRecorder{}

	_, err := uploader.Upload(context.Background(), "demo", demoBatch(), recorder)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 40, 80, 99, 100}, recorder.For("video"))

	for _, file := range []string{"video", "audio.hi", "audio.bn"} {
		percents := recorder.For(file)
		require.NotEmpty(t, percents, file)
		assert.Equal(t, 0, percents[0], file)
		assert.Equal(t, 100, percents[len(percents)-1], file)
		for i := 1; i < len(percents); i++ {
			assert.Greater(t, percents[i], percents[i-1], file)
		}
	}

	// Audio never starts before the video finished
	events := recorder.Events()
	videoDone := -1
	firstAudio := -1
	for index, event := range events {
		if event.File == "video" && event.Percent == 100 {
			videoDone = index
		}
		if strings.HasPrefix(event.File, "audio.") && firstAudio < 0 {
			firstAudio = index
		}
	}
	assert.Less(t, videoDone, firstAudio)
}

/*
TestUploader_Preconditions fails fast without touching storage.
*/
func TestUploader_Preconditions(t *testing.T) {
	video := fileOf("demo.mp4", "video")

	tests := []struct {
		name    string
		slug    string
		batch   media.Batch
		message string
	}{
		{
			name:    "Missing slug",
			slug:    " ",
			batch:   demoBatch(),
			message: "Slug is required before uploading sources.",
		},
		{
			name:    "Missing video",
			slug:    "demo",
			batch:   media.Batch{Audio: demoBatch().Audio},
			message: "Please select a video-only file.",
		},
		{
			name:    "Missing audio",
			slug:    "demo",
			batch:   media.Batch{Video: &video},
			message: "Please add at least 1 audio file.",
		},
		{
			name: "Duplicate language",
			slug: "demo",
			batch: media.Batch{Video: &video, Audio: []media.AudioFile{
				{Language: "hi", File: fileOf("a.wav", "a")},
				{Language: "bn", File: fileOf("b.wav", "b")},
				{Language: "HI", File: fileOf("c.wav", "c")},
			}},
			message: "Duplicate language selected: hi. Each audio must have a unique language.",
		},
		{
			name: "Empty language",
			slug: "demo",
			batch: media.Batch{Video: &video, Audio: []media.AudioFile{
				{Language: "", File: fileOf("a.wav", "a")},
			}},
			message: "Language code is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := testsupport.NewBlobStore()
			uploader := media.NewUploader(blobs, testsupport.Logger())
			recorder := &testsupport.ProgressRecorder{}

			_, err := uploader.Upload(context.Background(), tt.slug, tt.batch, recorder)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.message, appErr.Details[0].Message)
			assert.Empty(t, blobs.Puts())
			assert.Empty(t, recorder.Events())
		})
	}
}

/*
TestUploader_PartialFailure leaves written files in place but reports no sources.
*/
func TestUploader_PartialFailure(t *testing.T) {
	blobs := testsupport.NewBlobStore()
	boom := errors.New("connection reset")
	blobs.FailOn("sources/demo/audio/hi.wav", boom)
	uploader := media.NewUploader(blobs, testsupport.Logger())

	sources, err := uploader.Upload(context.Background(), "demo", demoBatch(), nil)

	require.ErrorIs(t, err, boom)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamUnavailable))
	assert.Empty(t, sources.VideoPath)
	assert.Nil(t, sources.AudioPaths)

	_, videoKept := blobs.Object("sources/demo/video.mp4")
	assert.True(t, videoKept)
	assert.Equal(t, []string{"sources/demo/video.mp4", "sources/demo/audio/hi.wav"}, blobs.Puts())
}
