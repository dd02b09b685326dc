// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package build_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/core/build"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/testsupport"
)

/*
TestClient_Trigger checks the wire contract with the build service.
*/
func TestClient_Trigger(t *testing.T) {
	var received struct {
		ProjectID string `json:"projectId"`
	}
	var secret string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/build", request.URL.Path)
		secret = request.Header.Get("x-build-secret")
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&received))

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusAccepted)
		_, _ = writer.Write([]byte(`{"ok":true,"jobId":"j-1"}`))
	}))
	defer server.Close()

	client := build.NewClient(server.URL+"/", "s3cret", server.Client(), testsupport.Logger())

	result, err := client.Trigger(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", received.ProjectID)
	assert.Equal(t, "s3cret", secret)
	assert.Equal(t, http.StatusAccepted, result.StatusCode)
	assert.True(t, result.OK)
	assert.True(t, result.Accepted())
	assert.JSONEq(t, `{"ok":true,"jobId":"j-1"}`, string(result.Body))
}

func TestClient_Trigger_Refused(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		ok     bool
		errMsg string
	}{
		{"Service reports not ok", http.StatusOK, `{"ok":false,"error":"no sources"}`, false, "no sources"},
		{"Unauthorized", http.StatusUnauthorized, `{"ok":true}`, true, ""},
		{"Non JSON body", http.StatusBadGateway, `upstream crashed`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := build.NewClient(server.URL, "s3cret", server.Client(), testsupport.Logger())
			result, err := client.Trigger(context.Background(), "p1")

			require.NoError(t, err)
			assert.False(t, result.Accepted())
			assert.Equal(t, tt.status, result.StatusCode)
			assert.Equal(t, tt.ok, result.OK)
			assert.Equal(t, tt.errMsg, result.Error)
			assert.True(t, json.Valid(result.Body))
		})
	}
}

/*
TestClient_NotConfigured fails before any network activity.
*/
func TestClient_NotConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	for _, client := range []*build.Client{
		build.NewClient("", "s3cret", server.Client(), testsupport.Logger()),
		build.NewClient(server.URL, " ", server.Client(), testsupport.Logger()),
	} {
		assert.False(t, client.Configured())

		_, err := client.Trigger(context.Background(), "p1")
		assert.ErrorIs(t, err, build.ErrNotConfigured)
		assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))
	}
	assert.Zero(t, calls.Load())
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestClient_Unreachable(t *testing.T) {
	client := build.NewClient("http://builder.invalid", "s3cret", failingDoer{}, testsupport.Logger())

	_, err := client.Trigger(context.Background(), "p1")

	assert.ErrorIs(t, err, build.ErrUnreachable)
	assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))
}
