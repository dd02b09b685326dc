// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/dberr"
)

/*
TestWrap_Classification maps driver errors to application errors.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "project_slug_key"}, apperr.CodeConflict},
		{"check_violation", &pgconn.PgError{Code: pgerrcode.CheckViolation}, apperr.CodeValidation},
		{"unknown", errors.New("connection reset"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.WrapResource(tt.err, "test_action", "Project")
			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
		})
	}
}

/*
TestWrap_Nil keeps nil errors nil.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

/*
TestWrap_ConflictNamesConstraint surfaces the violated constraint to the operator.
*/
func TestWrap_ConflictNamesConstraint(t *testing.T) {
	err := dberr.WrapResource(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "project_slug_key"}, "insert", "Project")
	assert.Contains(t, err.Error(), "project_slug_key")
}
