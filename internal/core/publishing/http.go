// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publishing

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stonemedia/internal/core/build"
	"github.com/taibuivan/stonemedia/internal/core/media"
	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/middleware"
	requestutil "github.com/taibuivan/stonemedia/internal/platform/request"
	"github.com/taibuivan/stonemedia/internal/platform/respond"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
	"github.com/taibuivan/stonemedia/internal/platform/validate"
)

// multipartMemory is how much of a source upload is buffered in memory
// before the rest spills to temporary files.
const multipartMemory = 32 << 20

// Multipart form fields of a source upload. Audio files and languages are
// paired by position.
const (
	FormVideo    = "video"
	FormAudio    = "audio"
	FormLanguage = "language"
)

// # Handler Implementation

// Handler exposes the publishing workflow over HTTP.
type Handler struct {
	workflow       *Workflow
	poller         *build.Poller
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler constructs a publishing [Handler].
func NewHandler(workflow *Workflow, poller *build.Poller, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		workflow:       workflow,
		poller:         poller,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Register adds the per-project publishing routes to the admin projects router.
func (handler *Handler) Register(router chi.Router) {
	router.Post("/{id}/sources", handler.uploadSources)
	router.Get("/{id}/sources/progress", handler.getUploadProgress)
	router.Get("/{id}/build", handler.getBuildState)
}

// TriggerRoutes returns the admin build trigger endpoint.
func (handler *Handler) TriggerRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleEditor))

	router.Post("/build-hls", handler.buildHLS)

	return router
}

// CallbackRoutes returns the endpoint the build service reports to.
func (handler *Handler) CallbackRoutes(secret string) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireSharedSecret(secret))

	router.Post("/callback", handler.buildCallback)

	return router
}

// EventRoutes returns the Server-Sent Events endpoints.
func (handler *Handler) EventRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleEditor))

	router.Get("/projects/{id}/build", handler.streamBuildState)

	return router
}

// # Request Payloads

type buildHLSRequest struct {
	ProjectID string `json:"projectId"`
}

// buildHLSFailure is the body of a trigger this API rejected itself.
type buildHLSFailure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// # Endpoints

/*
POST /api/v1/admin/projects/{id}/sources.

Description: Uploads a video-only file and one audio file per language.
Repeated "audio" files are paired in order with repeated "language" values.

Response:
  - 200: Project: Record with the new source paths and build status idle
  - 400: ErrValidation: Missing video, no audio, duplicate language
  - 409: ErrConflict: Upload already running or build in progress
  - 502: ErrUpstreamUnavailable: A transfer failed
*/
func (handler *Handler) uploadSources(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, handler.maxUploadBytes)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.ValidationError("Upload exceeds the maximum allowed size"))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("Request must be multipart/form-data"))
		return
	}
	defer func() {
		if err := request.MultipartForm.RemoveAll(); err != nil {
			handler.logger.Warn("multipart_cleanup_failed", slog.String("error", err.Error()))
		}
	}()

	batch, err := batchFromForm(request.MultipartForm)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.workflow.UploadSources(request.Context(), requestutil.Param(request, "id"), batch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
GET /api/v1/admin/projects/{id}/sources/progress.

Response:
  - 200: map[string]int: Percent per file ("video", "audio.<lang>")
*/
func (handler *Handler) getUploadProgress(writer http.ResponseWriter, request *http.Request) {
	progress, err := handler.workflow.UploadProgress(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

/*
GET /api/v1/admin/projects/{id}/build.

Description: Single observation of the build axis, including an upload in flight.

Response:
  - 200: Observation
  - 404: ErrNotFound
*/
func (handler *Handler) getBuildState(writer http.ResponseWriter, request *http.Request) {
	observation, err := handler.workflow.Observe(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, observation)
}

/*
POST /api/admin/build-hls.

Description: Asks the build service to package a project. When the service
answers, its status code and body are relayed unchanged.

Request:
  - projectId: string

Response:
  - 2xx/4xx/5xx: Build service status and body
  - 400: {ok:false, error:"projectId required"}
  - 404: Project does not exist
  - 409: Build already running or upload in flight
  - 500: Server env missing HLS_BUILDER_URL or BUILD_SECRET
*/
func (handler *Handler) buildHLS(writer http.ResponseWriter, request *http.Request) {
	var payload buildHLSRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		handler.writeBuildFailure(writer, request, err)
		return
	}

	projectID := strings.TrimSpace(payload.ProjectID)
	if projectID == "" {
		handler.writeBuildFailure(writer, request, apperr.ValidationError("projectId required"))
		return
	}

	result, err := handler.workflow.TriggerBuild(request.Context(), projectID)
	if err != nil {
		handler.writeBuildFailure(writer, request, err)
		return
	}

	respond.RawJSON(writer, result.StatusCode, result.Body)
}

/*
POST /api/internal/build/callback.

Description: Receives progress and results from the build service. Requires
the shared build secret header.

Response:
  - 204: Report applied
  - 400: ErrValidation: Unknown status or done without hlsPath
  - 401: Missing or wrong secret
  - 409: ErrConflict: Project is not building
*/
func (handler *Handler) buildCallback(writer http.ResponseWriter, request *http.Request) {
	var report build.Report
	if err := requestutil.DecodeJSON(writer, request, &report); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.workflow.ApplyReport(request.Context(), report); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/v1/events/projects/{id}/build.

Description: Streams "build" events while the project is building and
closes with a single "end" event. The stream stops when the client
disconnects or the polling deadline passes.
*/
func (handler *Handler) streamBuildState(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	projectID := requestutil.Param(request, "id")

	// Resolve not-found before committing to a stream
	if _, err := handler.workflow.Observe(ctx, projectID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stream, ok := respond.NewEventStream(writer)
	if !ok {
		respond.Error(writer, request, apperr.Internal(errors.New("response writer cannot stream")))
		return
	}

	final, err := handler.poller.Watch(ctx, projectID, func(state project.BuildState) {
		if sendErr := stream.Send("build", state); sendErr != nil {
			handler.logger.Debug("build_stream_send_failed", slog.String("error", sendErr.Error()))
		}
	})

	end := map[string]any{"status": final.Status}
	switch {
	case err == nil:
	case errors.Is(err, build.ErrPollTimeout):
		end["reason"] = "timeout"
	case ctx.Err() != nil:
		handler.logger.Debug("build_poll_stopped", slog.String("project_id", projectID), slog.String("reason", "client_gone"))
		return
	default:
		end["reason"] = "error"
		end["error"] = err.Error()
	}

	handler.logger.Debug("build_poll_stopped",
		slog.String("project_id", projectID),
		slog.String("status", string(final.Status)),
	)
	_ = stream.Send("end", end)
}

// # Helpers

// batchFromForm maps the multipart form into a source [media.Batch].
func batchFromForm(form *multipart.Form) (media.Batch, error) {
	var batch media.Batch

	if videos := form.File[FormVideo]; len(videos) > 0 {
		video := fileFromHeader(videos[0])
		batch.Video = &video
	}

	audios := form.File[FormAudio]
	languages := form.Value[FormLanguage]
	if len(audios) != len(languages) {
		return media.Batch{}, validate.RequiredError(FormLanguage, "Each audio file needs exactly one language.")
	}

	for index, header := range audios {
		batch.Audio = append(batch.Audio, media.AudioFile{
			Language: languages[index],
			File:     fileFromHeader(header),
		})
	}

	return batch, nil
}

func fileFromHeader(header *multipart.FileHeader) media.File {
	return media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// writeBuildFailure keeps the {ok, error} shape the admin panel reads from build-hls.
func (handler *Handler) writeBuildFailure(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		handler.logger.ErrorContext(request.Context(), "build_trigger_failed",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	respond.JSON(writer, appError.HTTPStatus, buildHLSFailure{
		OK:    false,
		Error: appError.Message,
		Code:  appError.Code,
	})
}
