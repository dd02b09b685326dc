// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package build

import (
	"fmt"

	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/platform/validate"
)

// Report is the build service's callback about one job.
type Report struct {
	ProjectID string              `json:"projectId"`
	Status    project.BuildStatus `json:"status"`
	Error     string              `json:"error,omitempty"`
	HLSPath   string              `json:"hlsPath,omitempty"`
}

// Validate checks the report shape. A successful build must name its playlist.
func (report Report) Validate() error {
	validator := &validate.Validator{}
	validator.Required("projectId", report.ProjectID)

	switch report.Status {
	case project.BuildBuilding, project.BuildError:
	case project.BuildDone:
		validator.Required("hlsPath", report.HLSPath)
	default:
		validator.Custom("status", true, fmt.Sprintf("Unsupported build status: %q", report.Status))
	}

	return validator.Err()
}

// State converts the report into the build state to persist.
func (report Report) State() project.BuildState {
	state := project.BuildState{Status: report.Status}

	switch report.Status {
	case project.BuildDone:
		state.HLSPath = report.HLSPath
	case project.BuildError:
		state.Error = report.Error
		if state.Error == "" {
			state.Error = "Build failed"
		}
	}
	return state
}
