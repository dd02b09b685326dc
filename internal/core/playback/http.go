// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/stonemedia/internal/platform/request"
	"github.com/taibuivan/stonemedia/internal/platform/respond"
)

// Handler serves playback descriptors to the public site.
type Handler struct {
	service *Service
}

// NewHandler constructs a playback [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register adds the playback route to the public work router.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/{slug}/playback", handler.getPlayback)
}

/*
GET /api/v1/work/{slug}/playback.

Response:
  - 200: Descriptor: {src, audioLanguages, defaultLanguage}
  - 404: ErrNotFound: Unknown, unpublished or not yet built
*/
func (handler *Handler) getPlayback(writer http.ResponseWriter, request *http.Request) {
	descriptor, err := handler.service.Describe(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, descriptor)
}
