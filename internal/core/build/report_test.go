// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package build_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stonemedia/internal/core/build"
	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

func TestReport_Validate(t *testing.T) {
	tests := []struct {
		name   string
		report build.Report
		valid  bool
	}{
		{"Done with playlist", build.Report{ProjectID: "p1", Status: project.BuildDone, HLSPath: "hls/demo/master.m3u8"}, true},
		{"Done without playlist", build.Report{ProjectID: "p1", Status: project.BuildDone}, false},
		{"Error", build.Report{ProjectID: "p1", Status: project.BuildError, Error: "ffmpeg exited 1"}, true},
		{"Still building", build.Report{ProjectID: "p1", Status: project.BuildBuilding}, true},
		{"Idle is not reportable", build.Report{ProjectID: "p1", Status: project.BuildIdle}, false},
		{"Missing project", build.Report{Status: project.BuildError}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}

func TestReport_State(t *testing.T) {
	done := build.Report{ProjectID: "p1", Status: project.BuildDone, HLSPath: "hls/p1/master.m3u8", Error: "ignored"}
	assert.Equal(t, project.BuildState{Status: project.BuildDone, HLSPath: "hls/p1/master.m3u8"}, done.State())

	failed := build.Report{ProjectID: "p1", Status: project.BuildError}
	assert.Equal(t, project.BuildState{Status: project.BuildError, Error: "Build failed"}, failed.State())
}
