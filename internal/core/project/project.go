// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package project defines the portfolio item aggregate and its lifecycle.

A project is one showreel entry on the studio site. It carries two independent
state axes that are never merged:

  - Publication: [Status] (draft, published, archived) controls public visibility.
  - Build: [BuildStatus] (idle, uploading, building, done, error) tracks the
    HLS packaging of the uploaded sources.

An operator may upload or rebuild sources on a published item without
unpublishing it, and archiving never touches build state.
*/
package project

import (
	"time"

	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
)

// # Publication Axis

// Status is the publication lifecycle of a project.
type Status string

const (
	// StatusDraft is the initial state; hidden from the public site.
	StatusDraft Status = "draft"

	// StatusPublished is the only status visible on the public site.
	StatusPublished Status = "published"

	// StatusArchived is a soft delete. The record is retained but hidden.
	StatusArchived Status = "archived"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// # Build Axis

// BuildStatus tracks the packaging of uploaded sources into an HLS rendition.
type BuildStatus string

const (
	BuildIdle      BuildStatus = "idle"
	BuildUploading BuildStatus = "uploading"
	BuildBuilding  BuildStatus = "building"
	BuildDone      BuildStatus = "done"
	BuildError     BuildStatus = "error"
)

// IsValid reports whether s is a recognised [BuildStatus] value.
func (s BuildStatus) IsValid() bool {
	switch s {
	case BuildIdle, BuildUploading, BuildBuilding, BuildDone, BuildError:
		return true
	}
	return false
}

// buildStatuses is every stored-or-observed build state, in axis order.
var buildStatuses = []BuildStatus{BuildIdle, BuildUploading, BuildBuilding, BuildDone, BuildError}

// CanTransition reports whether a stored build state may move from s to next.
//
// idle, done and error accept a new build or a source upload (which resets to
// idle). building only ends in done or error. uploading is derived from the
// upload lock and is never written, so it has no moves.
func (s BuildStatus) CanTransition(next BuildStatus) bool {
	switch s {
	case BuildIdle, BuildDone, BuildError:
		return next == BuildBuilding || next == BuildIdle
	case BuildBuilding:
		return next == BuildDone || next == BuildError
	}
	return false
}

// TransitionSources lists the states from which a record may move to next.
// Conditional store writes use it as their guard.
func TransitionSources(next BuildStatus) []BuildStatus {
	sources := make([]BuildStatus, 0, len(buildStatuses))
	for _, status := range buildStatuses {
		if status.CanTransition(next) {
			sources = append(sources, status)
		}
	}
	return sources
}

// BuildState is the build-axis projection of a record.
type BuildState struct {
	Status  BuildStatus `json:"status"`
	Error   string      `json:"error,omitempty"`
	HLSPath string      `json:"hls_path,omitempty"`
}

// # Aggregate

// Project is one portfolio item.
type Project struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Slug         string                `json:"slug"` // Unique; namespaces every stored file
	ServiceSlug  taxonomy.ServiceSlug  `json:"service_slug"`
	CategorySlug taxonomy.CategorySlug `json:"category_slug"`
	Year         *int                  `json:"year,omitempty"`
	Meta         string                `json:"meta"`
	Languages    []string              `json:"languages"`
	Order        float64               `json:"order"` // Lower sorts first; gaps are expected
	Status       Status                `json:"status"`

	// # Sources
	SourceVideoPath  string            `json:"source_video_path"`
	SourceAudioPaths map[string]string `json:"source_audio_paths"` // Language code → storage path

	// # Build Output
	BuildStatus BuildStatus `json:"build_status"`
	BuildError  string      `json:"build_error"`
	HLSPath     string      `json:"hls_path"` // Survives rebuilds until the next success overwrites it

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Build returns the build-axis projection of the record.
func (p *Project) Build() BuildState {
	return BuildState{Status: p.BuildStatus, Error: p.BuildError, HLSPath: p.HLSPath}
}

// PublicProject is the shape served to site visitors.
type PublicProject struct {
	Title        string                `json:"title"`
	Slug         string                `json:"slug"`
	ServiceSlug  taxonomy.ServiceSlug  `json:"service_slug"`
	CategorySlug taxonomy.CategorySlug `json:"category_slug"`
	Category     string                `json:"category"`
	Year         *int                  `json:"year,omitempty"`
	Meta         string                `json:"meta,omitempty"`
	Languages    []string              `json:"languages"`
	Playable     bool                  `json:"playable"`
}

// Public strips source paths and build diagnostics.
func (p *Project) Public() PublicProject {
	return PublicProject{
		Title:        p.Title,
		Slug:         p.Slug,
		ServiceSlug:  p.ServiceSlug,
		CategorySlug: p.CategorySlug,
		Category:     taxonomy.CategoryLabel(p.CategorySlug),
		Year:         p.Year,
		Meta:         p.Meta,
		Languages:    p.Languages,
		Playable:     p.HLSPath != "",
	}
}

// # Inputs

// Patch is a partial metadata update. Nil fields are left untouched.
// Build fields are deliberately absent except HLSPath, which operators may
// point at an externally produced playlist.
type Patch struct {
	Title        *string                `json:"title"`
	Slug         *string                `json:"slug"`
	ServiceSlug  *taxonomy.ServiceSlug  `json:"service_slug"`
	CategorySlug *taxonomy.CategorySlug `json:"category_slug"`
	Year         *int                   `json:"year"`
	ClearYear    bool                   `json:"clear_year"`
	Meta         *string                `json:"meta"`
	Languages    []string               `json:"languages"`
	Order        *float64               `json:"order"`
	Status       *Status                `json:"status"`
	HLSPath      *string                `json:"hls_path"`
}

// Filter narrows a listing to one sibling set and/or a set of statuses.
type Filter struct {
	Service  taxonomy.ServiceSlug
	Category taxonomy.CategorySlug
	Statuses []Status
}

// Sources is the outcome of a complete source upload.
type Sources struct {
	VideoPath  string            `json:"video_path"`
	AudioPaths map[string]string `json:"audio_paths"`
}

// # Field Identifiers

const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldSlug      = "slug"
	FieldYear      = "year"
	FieldMeta      = "meta"
	FieldLanguages = "languages"
	FieldStatus    = "status"
)

// DefaultLanguages seeds the spoken-language list of a new project.
var DefaultLanguages = []string{"hi", "bn", "ta"}
