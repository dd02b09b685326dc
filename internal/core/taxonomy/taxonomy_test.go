// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

/*
TestValidate_Membership enforces that a category belongs to its service.
*/
func TestValidate_Membership(t *testing.T) {
	tests := []struct {
		name     string
		service  taxonomy.ServiceSlug
		category taxonomy.CategorySlug
		field    string
	}{
		{"dubbing_ott", taxonomy.ServiceDubbing, taxonomy.CategoryOTTDubbing, ""},
		{"dubbing_ads", taxonomy.ServiceDubbing, taxonomy.CategoryAdCampaigns, ""},
		{"audio_post_self", taxonomy.ServiceAudioPost, taxonomy.CategoryAudioPost, ""},
		{"foreign_category", taxonomy.ServiceAudioPost, taxonomy.CategoryOTTDubbing, taxonomy.FieldCategory},
		{"unknown_category", taxonomy.ServiceDubbing, "trailers", taxonomy.FieldCategory},
		{"unknown_service", "podcasts", taxonomy.CategoryAudioPost, taxonomy.FieldService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := taxonomy.Validate(tt.service, tt.category)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

/*
TestCatalogue_CoversEveryService keeps presentation copy in sync with the enumeration.
*/
func TestCatalogue_CoversEveryService(t *testing.T) {
	catalogue := taxonomy.Catalogue()
	require.Len(t, catalogue, len(taxonomy.Services()))

	for i, entry := range catalogue {
		assert.Equal(t, taxonomy.Services()[i], entry.Slug)
		assert.NotEmpty(t, entry.Label)
		assert.NotEmpty(t, entry.Categories)
	}

	assert.Equal(t, "Dubbing & Localization", catalogue[0].Label)
	assert.Equal(t, "OTT / Movie Dubbing", catalogue[0].Categories[0].Label)
}

/*
TestCategory_IsValid accepts only categories offered by some service.
*/
func TestCategory_IsValid(t *testing.T) {
	assert.True(t, taxonomy.CategorySyndication.IsValid())
	assert.False(t, taxonomy.CategorySlug("misc").IsValid())

	category, ok := taxonomy.ServiceDubbing.DefaultCategory()
	assert.True(t, ok)
	assert.Equal(t, taxonomy.CategoryOTTDubbing, category)
}

/*
TestHandler_Routes serves the catalogue and rejects unknown services.
*/
func TestHandler_Routes(t *testing.T) {
	router := taxonomy.NewHandler().Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []taxonomy.Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Data, 6)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/compliance", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/podcasts", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
