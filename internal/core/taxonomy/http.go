// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	requestutil "github.com/taibuivan/stonemedia/internal/platform/request"
	"github.com/taibuivan/stonemedia/internal/platform/respond"
)

// Handler serves the public service catalogue.
type Handler struct{}

// NewHandler constructs a taxonomy [Handler].
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns a [chi.Router] with the catalogue endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listServices)
	router.Get("/{service}", handler.getService)
	return router
}

/*
GET /api/v1/services.

Description: Lists every studio service with its categories and copy.

Response:
  - 200: []Service
*/
func (handler *Handler) listServices(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, Catalogue())
}

/*
GET /api/v1/services/{service}.

Response:
  - 200: Service
  - 404: Unknown service
*/
func (handler *Handler) getService(writer http.ResponseWriter, request *http.Request) {
	entry, ok := Lookup(ServiceSlug(requestutil.Param(request, "service")))
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Service"))
		return
	}
	respond.OK(writer, entry)
}
