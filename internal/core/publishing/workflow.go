// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package publishing sequences the steps that take a project from an empty
draft to a playable showreel.

	upload sources → trigger build → (build service works) → report → publish

It is the only component with a state machine. The build axis of a record
moves idle → building → done|error within one attempt; a new upload resets
it to idle. The publication axis is handled by the project service and is
never touched here.

Concurrency is controlled without holding locks on the record:

  - A Redis lock marks an upload in flight; a build cannot start meanwhile.
  - Entering building is a conditional write, so two triggers for the same
    project cannot both reach the build service.
*/
package publishing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/stonemedia/internal/core/build"
	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/ctxutil"
	"github.com/taibuivan/stonemedia/pkg/saga"
)

// # Collaborators

// UploadLock marks a project as having an upload in flight.
type UploadLock interface {
	Acquire(ctx context.Context, projectID string) (token string, acquired bool, err error)
	Release(ctx context.Context, projectID, token string) error
	Held(ctx context.Context, projectID string) (bool, error)
}

// ProgressStore keeps per-file upload progress readable across requests.
type ProgressStore interface {
	For(projectID string) media.ProgressObserver
	Read(ctx context.Context, projectID string) (map[string]int, error)
	Reset(ctx context.Context, projectID string) error
}

// SourceUploader transfers a validated batch into blob storage.
type SourceUploader interface {
	Upload(ctx context.Context, slug string, batch media.Batch, observer media.ProgressObserver) (project.Sources, error)
}

// Builder triggers the external build service.
type Builder interface {
	Configured() bool
	Trigger(ctx context.Context, projectID string) (build.Result, error)
}

// errRefused marks a trigger the build service answered but did not accept.
var errRefused = errors.New("build service refused the job")

// Observation is the admin view of a project's build axis.
type Observation struct {
	project.BuildState
	Uploading bool           `json:"uploading"`
	Progress  map[string]int `json:"progress,omitempty"`
}

// # Workflow

// Workflow orchestrates uploads, build triggers and build reports.
type Workflow struct {
	projects project.Repository
	uploader SourceUploader
	builder  Builder
	locks    UploadLock
	progress ProgressStore
	logger   *slog.Logger
}

// NewWorkflow constructs a publishing [Workflow].
func NewWorkflow(projects project.Repository, uploader SourceUploader, builder Builder, locks UploadLock, progress ProgressStore, logger *slog.Logger) *Workflow {
	return &Workflow{
		projects: projects,
		uploader: uploader,
		builder:  builder,
		locks:    locks,
		progress: progress,
		logger:   logger,
	}
}

/*
UploadSources replaces a project's source files.

Description: Takes the project's upload lock, refuses while a build is
running, transfers the batch and records the new paths. The record is
written only after every file transferred; the build axis is reset to idle
and the previous HLS output stays referenced until the next build succeeds.

Parameters:
  - ctx: context.Context
  - projectID: string
  - batch: media.Batch

Returns:
  - *project.Project: The updated record
  - error: NotFound, Validation, Conflict or transfer errors
*/
func (workflow *Workflow) UploadSources(ctx context.Context, projectID string, batch media.Batch) (*project.Project, error) {
	record, err := workflow.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Fail on a bad batch before taking the lock
	if _, err := media.ValidateBatch(record.Slug, batch); err != nil {
		return nil, err
	}

	token, acquired, err := workflow.locks.Acquire(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, apperr.Conflict("An upload is already in progress for this project")
	}
	defer func() {
		if err := workflow.locks.Release(context.WithoutCancel(ctx), projectID, token); err != nil {
			workflow.logger.Warn("upload_lock_release_failed",
				slog.String("project_id", projectID),
				slog.String("error", err.Error()),
			)
		}
	}()

	// Re-read under the lock: a trigger may have won the race
	record, err = workflow.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !record.BuildStatus.CanTransition(project.BuildIdle) {
		return nil, apperr.Conflict("A build is in progress; wait for it to finish before uploading new sources")
	}

	if err := workflow.progress.Reset(ctx, projectID); err != nil {
		workflow.logger.Warn("upload_progress_reset_failed", slog.String("error", err.Error()))
	}

	workflow.logger.Info("source_upload_started",
		slog.String("project_id", projectID),
		slog.Int("audio_count", len(batch.Audio)),
		slog.String("actor", ctxutil.Actor(ctx)),
	)

	sources, err := workflow.uploader.Upload(ctx, record.Slug, batch, workflow.progress.For(projectID))
	if err != nil {
		return nil, err
	}

	if err := workflow.projects.SetSources(ctx, projectID, sources); err != nil {
		return nil, err
	}

	record.SourceVideoPath = sources.VideoPath
	record.SourceAudioPaths = sources.AudioPaths
	record.BuildStatus = project.BuildIdle
	record.BuildError = ""

	workflow.logger.Info("source_upload_completed",
		slog.String("project_id", projectID),
		slog.String("video_path", sources.VideoPath),
	)

	return record, nil
}

/*
TriggerBuild starts packaging a project on the build service.

Description: The record is moved to building with a conditional write before
the call, so a second trigger gets a Conflict and never reaches the service.
When the service refuses the job or cannot be reached, the previous build
state is restored. A refusal is not an error: the service's answer is
returned for the caller to relay. Source presence is deliberately not
checked; the build service reports missing sources itself.

Parameters:
  - ctx: context.Context
  - projectID: string

Returns:
  - build.Result: The service's answer
  - error: Configuration, NotFound, Conflict or inconsistency errors
*/
func (workflow *Workflow) TriggerBuild(ctx context.Context, projectID string) (build.Result, error) {
	if !workflow.builder.Configured() {
		return build.Result{}, apperr.Configuration("Server env missing HLS_BUILDER_URL or BUILD_SECRET", build.ErrNotConfigured)
	}

	record, err := workflow.projects.FindByID(ctx, projectID)
	if err != nil {
		return build.Result{}, err
	}

	if err := workflow.rejectWhileUploading(ctx, projectID); err != nil {
		return build.Result{}, err
	}

	previous := record.Build()
	var result build.Result

	err = saga.Run(ctx,
		saga.Step{
			Name: "mark_building",
			Do: func(stepCtx context.Context) error {
				applied, err := workflow.projects.TransitionBuild(stepCtx, projectID, project.TransitionSources(project.BuildBuilding),
					project.BuildState{Status: project.BuildBuilding})
				if err != nil {
					return err
				}
				if !applied {
					return apperr.Conflict("A build is already in progress for this project")
				}
				return nil
			},
			Compensate: func(stepCtx context.Context) error {
				// Undo only our own write; a report may already have landed
				_, err := workflow.projects.TransitionBuild(stepCtx, projectID,
					[]project.BuildStatus{project.BuildBuilding}, previous)
				return err
			},
		},
		saga.Step{
			Name: "check_upload_lock",
			Do: func(stepCtx context.Context) error {
				return workflow.rejectWhileUploading(stepCtx, projectID)
			},
		},
		saga.Step{
			Name: "call_build_service",
			Do: func(stepCtx context.Context) error {
				result, err = workflow.builder.Trigger(stepCtx, projectID)
				if err != nil {
					return err
				}
				if !result.Accepted() {
					return errRefused
				}
				return nil
			},
		},
	)

	if err == nil {
		workflow.logger.Info("build_started",
			slog.String("project_id", projectID),
			slog.String("actor", ctxutil.Actor(ctx)),
		)
		return result, nil
	}

	failure, ok := saga.AsFailure(err)
	if !ok {
		return build.Result{}, err
	}

	if !failure.Consistent() {
		workflow.logger.Error("build_trigger_inconsistent",
			slog.String("project_id", projectID),
			slog.Any("error", failure),
		)
		return result, apperr.Inconsistent("Build was not started but the project is still marked as building", failure,
			apperr.FieldError{Field: "project_id", Message: projectID})
	}

	if errors.Is(failure.Cause, errRefused) {
		workflow.logger.Warn("build_refused",
			slog.String("project_id", projectID),
			slog.Int("status_code", result.StatusCode),
			slog.String("error", result.Error),
		)
		return result, nil
	}

	return build.Result{}, failure.Cause
}

/*
ApplyReport records the build service's callback.

Description: Reports are accepted only while the record is building. A
"building" report is an acknowledgement and changes nothing.

Parameters:
  - ctx: context.Context
  - report: build.Report

Returns:
  - error: Validation, NotFound or Conflict when the project is not building
*/
func (workflow *Workflow) ApplyReport(ctx context.Context, report build.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	if report.Status == project.BuildBuilding {
		record, err := workflow.projects.FindByID(ctx, report.ProjectID)
		if err != nil {
			return err
		}
		if record.BuildStatus != project.BuildBuilding {
			return apperr.Conflict("Project is not building")
		}
		return nil
	}

	applied, err := workflow.projects.TransitionBuild(ctx, report.ProjectID,
		project.TransitionSources(report.Status), report.State())
	if err != nil {
		return err
	}
	if !applied {
		return apperr.Conflict("Project is not building")
	}

	workflow.logger.Info("build_finished",
		slog.String("project_id", report.ProjectID),
		slog.String("status", string(report.Status)),
		slog.String("hls_path", report.HLSPath),
		slog.String("build_error", report.Error),
	)
	return nil
}

/*
Observe returns the build axis together with any upload in flight.

Description: While the upload lock is held and no build runs, the status is
reported as uploading. Reads never write.
*/
func (workflow *Workflow) Observe(ctx context.Context, projectID string) (Observation, error) {
	record, err := workflow.projects.FindByID(ctx, projectID)
	if err != nil {
		return Observation{}, err
	}

	observation := Observation{BuildState: record.Build()}

	held, err := workflow.locks.Held(ctx, projectID)
	if err != nil {
		return Observation{}, err
	}
	if held {
		observation.Uploading = true
		if observation.Status != project.BuildBuilding {
			observation.Status = project.BuildUploading
		}
		observation.Progress, err = workflow.progress.Read(ctx, projectID)
		if err != nil {
			return Observation{}, err
		}
	}

	return observation, nil
}

// UploadProgress returns the per-file percentages of the latest upload.
func (workflow *Workflow) UploadProgress(ctx context.Context, projectID string) (map[string]int, error) {
	if _, err := workflow.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return workflow.progress.Read(ctx, projectID)
}

func (workflow *Workflow) rejectWhileUploading(ctx context.Context, projectID string) error {
	held, err := workflow.locks.Held(ctx, projectID)
	if err != nil {
		return err
	}
	if held {
		return apperr.Conflict("Sources are still uploading; trigger the build once the upload finishes")
	}
	return nil
}
