// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/platform/ctxutil"
	"github.com/taibuivan/stonemedia/internal/platform/middleware"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

func okHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func chain(verifier middleware.TokenVerifier, role sec.UserRole) http.Handler {
	return middleware.Authenticate(verifier)(middleware.RequireRole(role)(http.HandlerFunc(okHandler)))
}

/*
TestRequireRole covers anonymous, malformed, insufficient and sufficient sessions.
*/
func TestRequireRole(t *testing.T) {
	editor := stubVerifier{claims: &sec.AuthClaims{Email: "ed@studio.example", Role: string(sec.RoleEditor)}}

	tests := []struct {
		name   string
		header string
		role   sec.UserRole
		status int
	}{
		{"anonymous", "", sec.RoleEditor, http.StatusUnauthorized},
		{"malformed", "Token good", sec.RoleEditor, http.StatusUnauthorized},
		{"invalid_token", "Bearer nope", sec.RoleEditor, http.StatusUnauthorized},
		{"insufficient_role", "Bearer good", sec.RoleAdmin, http.StatusForbidden},
		{"allowed", "Bearer good", sec.RoleEditor, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/admin/projects", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			chain(editor, tt.role).ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestAuthenticate_InjectsClaims makes the session visible to downstream handlers.
*/
func TestAuthenticate_InjectsClaims(t *testing.T) {
	verifier := stubVerifier{claims: &sec.AuthClaims{Email: "ops@studio.example", Role: "admin"}}

	var actor string
	handler := middleware.Authenticate(verifier)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		actor = ctxutil.Actor(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, "ops@studio.example", actor)
}

/*
TestRequireSharedSecret checks the build callback guard.
*/
func TestRequireSharedSecret(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		presented  string
		status     int
	}{
		{"unconfigured", "", "anything", http.StatusInternalServerError},
		{"wrong_secret", "s3cret", "guess", http.StatusUnauthorized},
		{"missing_header", "s3cret", "", http.StatusUnauthorized},
		{"valid", "s3cret", "s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/internal/build/callback", nil)
			if tt.presented != "" {
				request.Header.Set(constants.HeaderBuildSecret, tt.presented)
			}
			recorder := httptest.NewRecorder()

			middleware.RequireSharedSecret(tt.configured)(http.HandlerFunc(okHandler)).ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRealIP prefers proxy headers over the socket address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}

/*
TestTimeout bounds JSON requests but leaves uploads and event streams open.
*/
func TestTimeout(t *testing.T) {
	var hasDeadline bool
	handler := middleware.Timeout(time.Minute)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, hasDeadline = request.Context().Deadline()
	}))

	tests := []struct {
		name    string
		path    string
		header  string
		value   string
		bounded bool
	}{
		{name: "json", path: "/api/v1/admin/projects", header: "Content-Type", value: "application/json", bounded: true},
		{name: "upload", path: "/api/v1/admin/projects/p1/sources", header: "Content-Type", value: "multipart/form-data; boundary=x"},
		{name: "stream accept", path: "/api/v1/anything", header: "Accept", value: "text/event-stream"},
		{name: "events path", path: "/api/v1/events/projects/p1/build"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				request.Header.Set(tt.header, tt.value)
			}
			handler.ServeHTTP(httptest.NewRecorder(), request)

			assert.Equal(t, tt.bounded, hasDeadline)
		})
	}
}

/*
TestRateLimit throttles a busy client but never the exempt paths.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := middleware.RateLimit(ctx, "/health")(http.HandlerFunc(okHandler))

	var throttled *httptest.ResponseRecorder
	count := func(path string) (limited int) {
		for i := 0; i < constants.DefaultRateLimitBurst+50; i++ {
			request := httptest.NewRequest(http.MethodGet, path, nil)
			request.RemoteAddr = "10.0.0.2:4000"
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			if recorder.Code == http.StatusTooManyRequests {
				limited++
				throttled = recorder
			}
		}
		return limited
	}

	assert.Zero(t, count("/health"))
	assert.Positive(t, count("/api/v1/work"))

	require.NotNil(t, throttled)
	assert.Equal(t, "1", throttled.Header().Get(constants.HeaderRetryAfter))
	assert.Contains(t, throttled.Body.String(), `"code":"`+apperr.CodeRateLimited+`"`)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "upstream-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "upstream-id", seen)
}
