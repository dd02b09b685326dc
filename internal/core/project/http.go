// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
	"github.com/taibuivan/stonemedia/internal/platform/middleware"
	requestutil "github.com/taibuivan/stonemedia/internal/platform/request"
	"github.com/taibuivan/stonemedia/internal/platform/respond"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
	"github.com/taibuivan/stonemedia/pkg/pagination"
	"github.com/taibuivan/stonemedia/pkg/query"
	"github.com/taibuivan/stonemedia/pkg/slice"
)

// # Handler Implementation

// Handler implements the HTTP layer for project management and the public
// work listing.
type Handler struct {
	service *Service
}

// NewHandler constructs a new project [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AdminRoutes returns the CMS endpoints. Every route requires an editor session.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleEditor))

	router.Get("/", handler.listProjects)
	router.Post("/", handler.createProject)
	router.Post("/reorder", handler.reorderProjects)

	router.Get("/{id}", handler.getProject)
	router.Patch("/{id}", handler.updateProject)
	router.Post("/{id}/archive", handler.archiveProject)
	router.Post("/{id}/publish", handler.publishProject)
	router.Post("/{id}/replace", handler.replaceProject)

	return router
}

// PublicRoutes returns the visitor-facing work endpoints.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listWork)
	router.Get("/{slug}", handler.getWork)

	return router
}

// # Request Payloads

// createProjectRequest defines the inbound JSON schema for project creation.
type createProjectRequest struct {
	Title        string                `json:"title"`
	Slug         string                `json:"slug"`
	ServiceSlug  taxonomy.ServiceSlug  `json:"service_slug"`
	CategorySlug taxonomy.CategorySlug `json:"category_slug"`
	Year         *int                  `json:"year"`
	Meta         string                `json:"meta"`
	Languages    []string              `json:"languages"`
	Order        *float64              `json:"order"`
	Status       Status                `json:"status"`
}

type replaceProjectRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type reorderRequest struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

// # Admin Endpoints

/*
GET /api/v1/admin/projects.

Description: Lists every project of a sibling set in ascending order,
regardless of status.

Request:
  - service: string (Service slug)
  - category: string (Category slug)
  - status: []string (draft, published, archived; repeated or comma-separated)

Response:
  - 200: []Project: Ordered projects
  - 400: ErrValidation: Unknown service, category or status
*/
func (handler *Handler) listProjects(writer http.ResponseWriter, request *http.Request) {
	filter := filterFromQuery(request)
	filter.Statuses = slice.Map(query.List(request.URL.Query()["status"]), func(value string) Status { return Status(value) })

	projects, err := handler.service.ListAdmin(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, projects)
}

/*
POST /api/v1/admin/projects.

Description: Creates a draft project at the end of its sibling set.
The slug is derived from the title when omitted.

Request (Body):
  - createProjectRequest: JSON object

Response:
  - 201: Project: Created project
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 409: ErrConflict: Slug already in use
*/
func (handler *Handler) createProject(writer http.ResponseWriter, request *http.Request) {
	var input createProjectRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.service.Create(request.Context(), CreateInput{
		Title:        input.Title,
		Slug:         input.Slug,
		ServiceSlug:  input.ServiceSlug,
		CategorySlug: input.CategorySlug,
		Year:         input.Year,
		Meta:         input.Meta,
		Languages:    input.Languages,
		Order:        input.Order,
		Status:       input.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, project)
}

/*
GET /api/v1/admin/projects/{id}.

Response:
  - 200: Project: Full record including sources and build state
  - 404: ErrNotFound: Project not found
*/
func (handler *Handler) getProject(writer http.ResponseWriter, request *http.Request) {
	project, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

/*
PATCH /api/v1/admin/projects/{id}.

Description: Applies a partial metadata edit. Build state cannot be changed here.

Request (Body):
  - Patch: JSON object (only the fields to change)

Response:
  - 200: Project: Updated record
  - 400: ErrValidation: Invalid merged record
  - 404: ErrNotFound: Project not found
  - 409: ErrConflict: Slug already in use
*/
func (handler *Handler) updateProject(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

/*
POST /api/v1/admin/projects/{id}/archive.

Response:
  - 200: Project: Archived record
  - 404: ErrNotFound: Project not found
*/
func (handler *Handler) archiveProject(writer http.ResponseWriter, request *http.Request) {
	project, err := handler.service.Archive(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

/*
POST /api/v1/admin/projects/{id}/publish.

Response:
  - 200: Project: Published record
  - 404: ErrNotFound: Project not found
*/
func (handler *Handler) publishProject(writer http.ResponseWriter, request *http.Request) {
	project, err := handler.service.Publish(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

/*
POST /api/v1/admin/projects/{id}/replace.

Description: Creates a draft successor at the same position and archives the original.

Request (Body):
  - replaceProjectRequest: JSON object

Response:
  - 201: Project: The new draft
  - 400: ErrValidation: Slug unchanged or invalid
  - 409: ErrConflict/ErrInconsistentState: Slug taken, or both records left live
*/
func (handler *Handler) replaceProject(writer http.ResponseWriter, request *http.Request) {
	var input replaceProjectRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.service.Replace(request.Context(), requestutil.Param(request, "id"), ReplaceInput{
		Title: input.Title,
		Slug:  input.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, project)
}

/*
POST /api/v1/admin/projects/reorder.

Description: Swaps the order of two neighbouring projects of one sibling set.

Request (Body):
  - reorderRequest: JSON object

Response:
  - 200: []Project: The sibling set after the swap
  - 400: ErrValidation: Not siblings or not neighbours
  - 409: ErrInconsistentState: Only one of the two writes applied
*/
func (handler *Handler) reorderProjects(writer http.ResponseWriter, request *http.Request) {
	var input reorderRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	projects, err := handler.service.Reorder(request.Context(), input.FirstID, input.SecondID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, projects)
}

// # Public Endpoints

/*
GET /api/v1/work.

Description: Paginated listing of published projects for the site.

Request:
  - service: string
  - category: string
  - page, limit: int

Response:
  - 200: []PublicProject: Paginated list
*/
func (handler *Handler) listWork(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	projects, total, err := handler.service.ListPublished(request.Context(), filterFromQuery(request),
		paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items := slice.Map(projects, func(project *Project) PublicProject { return project.Public() })
	respond.Paginated(writer, items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/work/{slug}.

Response:
  - 200: PublicProject: Published project
  - 404: ErrNotFound: Missing or not published
*/
func (handler *Handler) getWork(writer http.ResponseWriter, request *http.Request) {
	project, err := handler.service.GetPublishedBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project.Public())
}

func filterFromQuery(request *http.Request) Filter {
	values := request.URL.Query()
	return Filter{
		Service:  taxonomy.ServiceSlug(values.Get("service")),
		Category: taxonomy.CategorySlug(values.Get("category")),
	}
}
