// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

/*
TestAppError_Constructors checks the status and code of each error class.
*/
func TestAppError_Constructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not_found", apperr.NotFound("Project"), apperr.CodeNotFound, http.StatusNotFound},
		{"conflict", apperr.Conflict("taken"), apperr.CodeConflict, http.StatusConflict},
		{"validation", apperr.ValidationError("bad"), apperr.CodeValidation, http.StatusBadRequest},
		{"configuration", apperr.Configuration("missing url", cause), apperr.CodeConfiguration, http.StatusInternalServerError},
		{"upstream", apperr.UpstreamUnavailable("storage down", cause), apperr.CodeUpstreamUnavailable, http.StatusBadGateway},
		{"inconsistent", apperr.Inconsistent("half done", cause), apperr.CodeInconsistentState, http.StatusConflict},
		{"internal", apperr.Internal(cause), apperr.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

/*
TestAppError_ChainTraversal verifies that wrapped AppErrors are still discoverable.
*/
func TestAppError_ChainTraversal(t *testing.T) {
	cause := errors.New("socket closed")
	wrapped := fmt.Errorf("upload: %w", apperr.UpstreamUnavailable("Storage unavailable", cause))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeUpstreamUnavailable))
	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, apperr.As(cause))
}

/*
TestAppError_WithCause ensures the shared sentinel is never mutated.
*/
func TestAppError_WithCause(t *testing.T) {
	base := apperr.Conflict("Build already in progress")
	cause := errors.New("rows affected: 0")

	derived := base.WithCause(cause)

	assert.Nil(t, base.Cause)
	assert.Equal(t, cause, derived.Cause)
	assert.Equal(t, base.Message, derived.Message)
}
