// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/validate"
)

// Field names reported by batch validation.
const (
	FieldSlug  = "slug"
	FieldVideo = "video"
	FieldAudio = "audio"
)

// ProgressObserver receives per-file transfer progress.
//
// For one file, reported percentages are within [0, 100], never decrease,
// and end at 100 when the transfer succeeds.
type ProgressObserver interface {
	Progress(ctx context.Context, file string, percent int)
}

// Uploader runs the source upload step against a [BlobStore].
type Uploader struct {
	store  BlobStore
	logger *slog.Logger
}

// NewUploader constructs an [Uploader].
func NewUploader(store BlobStore, logger *slog.Logger) *Uploader {
	return &Uploader{store: store, logger: logger}
}

/*
Upload validates a batch and transfers it file by file.

Description: Validation happens before any transfer. The video is fully
written before the first audio file starts, and audio files follow in batch
order. Files already written are not removed when a later one fails; the
paths are deterministic so a retry overwrites them.

Parameters:
  - ctx: context.Context
  - slug: string (Project slug; the path namespace)
  - batch: Batch
  - observer: ProgressObserver (may be nil)

Returns:
  - project.Sources: Paths of every written file; only on full success
  - error: Validation errors, or UPSTREAM_UNAVAILABLE naming the failed file
*/
func (uploader *Uploader) Upload(ctx context.Context, slug string, batch Batch, observer ProgressObserver) (project.Sources, error) {
	languages, err := ValidateBatch(slug, batch)
	if err != nil {
		return project.Sources{}, err
	}

	sources := project.Sources{
		VideoPath:  VideoPath(slug, batch.Video.Name),
		AudioPaths: make(map[string]string, len(batch.Audio)),
	}

	if err := uploader.transfer(ctx, sources.VideoPath, ProgressKey(""), *batch.Video, observer); err != nil {
		return project.Sources{}, err
	}

	for index, audio := range batch.Audio {
		language := languages[index]
		target := AudioPath(slug, language, audio.Name)

		if err := uploader.transfer(ctx, target, ProgressKey(language), audio.File, observer); err != nil {
			return project.Sources{}, err
		}
		sources.AudioPaths[language] = target
	}

	uploader.logger.Info("sources_uploaded",
		slog.String("slug", slug),
		slog.String("video_path", sources.VideoPath),
		slog.Int("audio_count", len(sources.AudioPaths)),
	)

	return sources, nil
}

/*
ValidateBatch checks every upload precondition.

Returns:
  - []string: Normalised language code of each audio file, in batch order
  - error: VALIDATION_ERROR with the first failing rule
*/
func ValidateBatch(slug string, batch Batch) ([]string, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, validate.RequiredError(FieldSlug, "Slug is required before uploading sources.")
	}
	if batch.Video == nil || batch.Video.Open == nil {
		return nil, validate.RequiredError(FieldVideo, "Please select a video-only file.")
	}
	if len(batch.Audio) == 0 {
		return nil, validate.RequiredError(FieldAudio, "Please add at least 1 audio file.")
	}

	languages := make([]string, 0, len(batch.Audio))
	seen := make(map[string]bool, len(batch.Audio))

	for _, audio := range batch.Audio {
		language := strings.ToLower(strings.TrimSpace(audio.Language))

		validator := &validate.Validator{}
		validator.
			Language(FieldAudio, language).
			Custom(FieldAudio, audio.Open == nil, fmt.Sprintf("Missing file for language %s.", language))
		if err := validator.Err(); err != nil {
			return nil, err
		}

		if seen[language] {
			return nil, validate.RequiredError(FieldAudio,
				fmt.Sprintf("Duplicate language selected: %s. Each audio must have a unique language.", language))
		}
		seen[language] = true
		languages = append(languages, language)
	}

	return languages, nil
}

// transfer writes one file and drives its progress reports.
func (uploader *Uploader) transfer(ctx context.Context, target, key string, file File, observer ProgressObserver) error {
	tracker := newProgressTracker(ctx, key, file.Size, observer)
	tracker.report(0)

	body, err := file.Open()
	if err != nil {
		return apperr.Internal(fmt.Errorf("open %s: %w", key, err))
	}
	defer body.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := uploader.store.Put(ctx, target, contentType, body, file.Size, tracker.written); err != nil {
		uploader.logger.Warn("source_upload_failed",
			slog.String("path", target),
			slog.String("error", err.Error()),
		)
		return apperr.UpstreamUnavailable(fmt.Sprintf("Upload of %s failed", key), err)
	}

	tracker.report(100)
	return nil
}

// # Progress Tracking

// progressTracker converts byte counts into monotonic percentages.
type progressTracker struct {
	ctx      context.Context
	key      string
	size     int64
	last     int
	observer ProgressObserver
}

func newProgressTracker(ctx context.Context, key string, size int64, observer ProgressObserver) *progressTracker {
	return &progressTracker{ctx: ctx, key: key, size: size, last: -1, observer: observer}
}

// written is the BlobStore callback. Unknown sizes only report start and end.
func (tracker *progressTracker) written(bytes int64) {
	if tracker.size <= 0 {
		return
	}

	percent := int(bytes * 100 / tracker.size)
	// 100 is reserved for the confirmed end of the transfer
	tracker.report(min(percent, 99))
}

func (tracker *progressTracker) report(percent int) {
	percent = max(0, min(percent, 100))
	if percent <= tracker.last {
		return
	}
	tracker.last = percent

	if tracker.observer != nil {
		tracker.observer.Progress(tracker.ctx, tracker.key, percent)
	}
}
