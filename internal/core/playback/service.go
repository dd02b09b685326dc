// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

// PublishedFinder resolves a visitor-visible project by slug.
type PublishedFinder interface {
	GetPublishedBySlug(ctx context.Context, slug string) (*project.Project, error)
}

// Service builds playback descriptors.
type Service struct {
	projects     PublishedFinder
	blobs        media.BlobStore
	mediaBaseURL string
	logger       *slog.Logger
}

// NewService constructs a playback [Service]. mediaBaseURL is prefixed to
// every stored HLS path.
func NewService(projects PublishedFinder, blobs media.BlobStore, mediaBaseURL string, logger *slog.Logger) *Service {
	return &Service{
		projects:     projects,
		blobs:        blobs,
		mediaBaseURL: mediaBaseURL,
		logger:       logger,
	}
}

/*
Describe returns the playback descriptor of a published project.

Description: The master playlist is read from blob storage to discover the
audio renditions. When the playlist declares none, or cannot be decoded,
the record's declared languages are offered instead.

Parameters:
  - ctx: context.Context
  - slug: string

Returns:
  - Descriptor
  - error: NotFound when unpublished or never built, UpstreamUnavailable on storage errors
*/
func (service *Service) Describe(ctx context.Context, slug string) (Descriptor, error) {
	record, err := service.projects.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return Descriptor{}, err
	}
	if record.HLSPath == "" {
		return Descriptor{}, apperr.NotFound("Playback")
	}

	codes, err := service.playlistLanguages(ctx, record.HLSPath)
	if err != nil {
		return Descriptor{}, err
	}
	if len(codes) == 0 {
		codes = Normalize(record.Languages)
	}

	return Descriptor{
		Src:             service.URL(record.HLSPath),
		AudioLanguages:  labelled(codes),
		DefaultLanguage: DefaultLanguage(codes),
	}, nil
}

// URL joins the media base URL and a stored path.
func (service *Service) URL(path string) string {
	return strings.TrimSuffix(service.mediaBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (service *Service) playlistLanguages(ctx context.Context, hlsPath string) ([]string, error) {
	reader, err := service.blobs.Open(ctx, hlsPath)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			service.logger.Warn("playback_playlist_missing", slog.String("hls_path", hlsPath))
			return nil, nil
		}
		return nil, apperr.UpstreamUnavailable("Could not read the playlist", err)
	}
	defer reader.Close()

	codes, err := AudioLanguages(reader)
	if err != nil {
		service.logger.Warn("playback_playlist_undecodable",
			slog.String("hls_path", hlsPath),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	return codes, nil
}
