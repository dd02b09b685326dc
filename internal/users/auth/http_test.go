// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/platform/ctxutil"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
	"github.com/taibuivan/stonemedia/internal/users/auth"
)

func withRole(request *http.Request, email string, role sec.UserRole) *http.Request {
	claims := &sec.AuthClaims{Email: email, Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

func TestHandler_CreateSession(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.service.Seed(context.Background(), []string{"ops@studio.example"}))
	routes := auth.NewHandler(f.service).Routes()

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"idToken":"google-ops"}`)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var envelope struct {
		Data auth.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, sec.RoleAdmin, envelope.Data.Role)

	rejected := httptest.NewRecorder()
	routes.ServeHTTP(rejected, httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"idToken":"google-stranger"}`)))
	assert.Equal(t, http.StatusForbidden, rejected.Code)
}

func TestHandler_Me(t *testing.T) {
	f := newAuthFixture(t)
	routes := auth.NewHandler(f.service).Routes()

	anonymous := httptest.NewRecorder()
	routes.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, withRole(httptest.NewRequest(http.MethodGet, "/me", nil), "ed@studio.example", sec.RoleEditor))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"email":"ed@studio.example","role":"editor"}}`, recorder.Body.String())
}

/*
TestHandler_Allowlist is restricted to admins; editors are refused.
*/
func TestHandler_Allowlist(t *testing.T) {
	f := newAuthFixture(t)
	routes := auth.NewHandler(f.service).AllowlistRoutes()

	body := `{"email":"new@studio.example","role":"editor"}`

	forbidden := httptest.NewRecorder()
	routes.ServeHTTP(forbidden, withRole(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "ed@studio.example", sec.RoleEditor))
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	created := httptest.NewRecorder()
	routes.ServeHTTP(created, withRole(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "ops@studio.example", sec.RoleAdmin))
	require.Equal(t, http.StatusCreated, created.Code)

	listed := httptest.NewRecorder()
	routes.ServeHTTP(listed, withRole(httptest.NewRequest(http.MethodGet, "/", nil), "ops@studio.example", sec.RoleAdmin))
	require.Equal(t, http.StatusOK, listed.Code)
	assert.JSONEq(t, `{"data":[{"email":"new@studio.example","role":"editor"}]}`, listed.Body.String())

	revoked := httptest.NewRecorder()
	routes.ServeHTTP(revoked, withRole(httptest.NewRequest(http.MethodDelete, "/new%40studio.example", nil), "ops@studio.example", sec.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, revoked.Code)

	members, err := f.service.Members(context.Background())
	require.NoError(t, err)
	assert.Empty(t, members)
}
