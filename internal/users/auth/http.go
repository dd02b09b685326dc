// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stonemedia/internal/platform/middleware"
	requestutil "github.com/taibuivan/stonemedia/internal/platform/request"
	"github.com/taibuivan/stonemedia/internal/platform/respond"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
	"github.com/taibuivan/stonemedia/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the admin sign-in and allowlist endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns the session endpoints.
//
// # Endpoints
//   - POST /session : Exchanges a Google ID token for an API session.
//   - GET  /me      : Returns the current session claims.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/session", handler.createSession)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleEditor))
		r.Get("/me", handler.me)
	})

	return router
}

// AllowlistRoutes returns the allowlist management endpoints. Admin only.
func (handler *Handler) AllowlistRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/", handler.listMembers)
	router.Post("/", handler.grantMember)
	router.Delete("/{email}", handler.revokeMember)

	return router
}

// # Request Payloads

type sessionRequest struct {
	IDToken string `json:"idToken"`
}

type grantRequest struct {
	Email string       `json:"email"`
	Role  sec.UserRole `json:"role"`
}

type meResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

/*
POST /api/v1/auth/session.

Request:
  - idToken: string (Firebase ID token from Google sign-in)

Response:
  - 201: Session
  - 401: Invalid or expired sign-in token
  - 403: Email not verified or not on the admin allowlist
*/
func (handler *Handler) createSession(writer http.ResponseWriter, request *http.Request) {
	var payload sessionRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignIn(request.Context(), payload.IDToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

// GET /api/v1/auth/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, meResponse{Email: claims.Email, Role: claims.Role})
}

// GET /api/v1/admin/allowlist.
func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	members, err := handler.authService.Members(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, members)
}

/*
POST /api/v1/admin/allowlist.

Request:
  - email: string
  - role: string (admin, editor)

Response:
  - 201: Member
  - 400: ErrValidation
*/
func (handler *Handler) grantMember(writer http.ResponseWriter, request *http.Request) {
	var payload grantRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	member, err := handler.authService.Grant(request.Context(), payload.Email, payload.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, member)
}

/*
DELETE /api/v1/admin/allowlist/{email}.

Response:
  - 204: Revoked
  - 404: Not on the allowlist
  - 409: Attempt to revoke the caller's own access
*/
func (handler *Handler) revokeMember(writer http.ResponseWriter, request *http.Request) {
	email, err := url.PathUnescape(requestutil.Param(request, "email"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldEmail, "Email is malformed"))
		return
	}

	if err := handler.authService.Revoke(request.Context(), email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
