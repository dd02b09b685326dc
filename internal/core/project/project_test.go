// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stonemedia/internal/core/project"
)

func TestBuildStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from project.BuildStatus
		to   project.BuildStatus
		want bool
	}{
		{from: project.BuildIdle, to: project.BuildBuilding, want: true},
		{from: project.BuildDone, to: project.BuildBuilding, want: true},
		{from: project.BuildError, to: project.BuildBuilding, want: true},
		{from: project.BuildDone, to: project.BuildIdle, want: true},
		{from: project.BuildError, to: project.BuildIdle, want: true},
		{from: project.BuildBuilding, to: project.BuildDone, want: true},
		{from: project.BuildBuilding, to: project.BuildError, want: true},

		{from: project.BuildBuilding, to: project.BuildBuilding, want: false},
		{from: project.BuildBuilding, to: project.BuildIdle, want: false},
		{from: project.BuildIdle, to: project.BuildDone, want: false},
		{from: project.BuildIdle, to: project.BuildError, want: false},
		{from: project.BuildDone, to: project.BuildError, want: false},
		{from: project.BuildUploading, to: project.BuildIdle, want: false},
		{from: project.BuildIdle, to: project.BuildUploading, want: false},
		{from: project.BuildStatus("queued"), to: project.BuildBuilding, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionSources(t *testing.T) {
	assert.Equal(t,
		[]project.BuildStatus{project.BuildIdle, project.BuildDone, project.BuildError},
		project.TransitionSources(project.BuildBuilding))
	assert.Equal(t, []project.BuildStatus{project.BuildBuilding}, project.TransitionSources(project.BuildDone))
	assert.Equal(t, []project.BuildStatus{project.BuildBuilding}, project.TransitionSources(project.BuildError))
	assert.Empty(t, project.TransitionSources(project.BuildUploading))
}
