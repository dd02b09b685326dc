// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/testsupport"
	"github.com/taibuivan/stonemedia/pkg/pointer"
)

func newService() (*project.Service, *testsupport.ProjectStore) {
	store := testsupport.NewProjectStore()
	return project.NewService(store, testsupport.Logger()), store
}

func dubbingInput(title string) project.CreateInput {
	return project.CreateInput{
		Title:        title,
		ServiceSlug:  taxonomy.ServiceDubbing,
		CategorySlug: taxonomy.CategoryOTTDubbing,
	}
}

/*
TestService_Create_DefaultOrder verifies the order gap policy.

The first project of a category lands at 1000, the next one 1000 later,
and another category starts again at 1000.
*/
func TestService_Create_DefaultOrder(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	first, err := service.Create(ctx, dubbingInput("Demo"))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, first.Order)
	assert.Equal(t, "demo", first.Slug)
	assert.Equal(t, project.StatusDraft, first.Status)
	assert.Equal(t, project.BuildIdle, first.BuildStatus)
	assert.Equal(t, []string{"hi", "bn", "ta"}, first.Languages)

	second, err := service.Create(ctx, dubbingInput("Second Reel"))
	require.NoError(t, err)
	assert.Equal(t, 2000.0, second.Order)

	other, err := service.Create(ctx, project.CreateInput{
		Title:        "Campaign",
		ServiceSlug:  taxonomy.ServiceDubbing,
		CategorySlug: taxonomy.CategoryAdCampaigns,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, other.Order)
}

/*
TestService_Create_Validation rejects records before any write.
*/
func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input project.CreateInput
		field string
	}{
		{
			name:  "Category outside service",
			input: project.CreateInput{Title: "X", ServiceSlug: taxonomy.ServiceAudioPost, CategorySlug: taxonomy.CategoryOTTDubbing},
			field: taxonomy.FieldCategory,
		},
		{
			name:  "Unknown service",
			input: project.CreateInput{Title: "X", ServiceSlug: "podcasts", CategorySlug: taxonomy.CategoryOTTDubbing},
			field: taxonomy.FieldService,
		},
		{
			name:  "Missing title",
			input: project.CreateInput{Slug: "x", ServiceSlug: taxonomy.ServiceAudioPost, CategorySlug: taxonomy.CategoryAudioPost},
			field: project.FieldTitle,
		},
		{
			name:  "Bad slug",
			input: project.CreateInput{Title: "X", Slug: "Not A Slug", ServiceSlug: taxonomy.ServiceAudioPost, CategorySlug: taxonomy.CategoryAudioPost},
			field: project.FieldSlug,
		},
		{
			name:  "Unknown status",
			input: project.CreateInput{Title: "X", Status: "hidden", ServiceSlug: taxonomy.ServiceAudioPost, CategorySlug: taxonomy.CategoryAudioPost},
			field: project.FieldStatus,
		},
		{
			name:  "Year out of range",
			input: project.CreateInput{Title: "X", Year: pointer.To(1800), ServiceSlug: taxonomy.ServiceAudioPost, CategorySlug: taxonomy.CategoryAudioPost},
			field: project.FieldYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService()

			_, err := service.Create(context.Background(), tt.input)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
			assert.Zero(t, store.Calls(testsupport.OpCreate))
		})
	}
}

func TestService_Create_DuplicateSlug(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	_, err := service.Create(ctx, dubbingInput("Demo"))
	require.NoError(t, err)

	_, err = service.Create(ctx, dubbingInput("Demo"))
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestService_Update_KeepsBuildState checks that metadata edits never touch the build axis.
*/
func TestService_Update_KeepsBuildState(t *testing.T) {
	service, store := newService()
	store.Seed(&project.Project{
		ID: "p1", Title: "Demo", Slug: "demo",
		ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing,
		Order: 1000, Status: project.StatusPublished,
		BuildStatus: project.BuildDone, HLSPath: "hls/demo/master.m3u8",
	})

	updated, err := service.Update(context.Background(), "p1", project.Patch{
		Title:     pointer.To("Demo Reel"),
		Languages: []string{" HI ", "bn", "hi", ""},
		Year:      pointer.To(2024),
	})
	require.NoError(t, err)
	assert.Equal(t, "Demo Reel", updated.Title)
	assert.Equal(t, []string{"hi", "bn"}, updated.Languages)

	stored := store.Get("p1")
	assert.Equal(t, project.BuildDone, stored.BuildStatus)
	assert.Equal(t, "hls/demo/master.m3u8", stored.HLSPath)
	assert.Equal(t, project.StatusPublished, stored.Status)
	assert.Equal(t, 2024, *stored.Year)
}

func TestService_Update_RevalidatesTaxonomy(t *testing.T) {
	service, store := newService()
	store.Seed(&project.Project{
		ID: "p1", Title: "Demo", Slug: "demo",
		ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing,
		Status: project.StatusDraft, BuildStatus: project.BuildIdle,
	})

	audioPost := taxonomy.ServiceAudioPost
	_, err := service.Update(context.Background(), "p1", project.Patch{ServiceSlug: &audioPost})

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, taxonomy.ServiceDubbing, store.Get("p1").ServiceSlug)
}

func TestService_ArchiveAndPublish(t *testing.T) {
	service, store := newService()
	store.Seed(&project.Project{
		ID: "p1", Title: "Demo", Slug: "demo",
		ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing,
		Status: project.StatusDraft, BuildStatus: project.BuildBuilding,
	})
	ctx := context.Background()

	_, err := service.Publish(ctx, "p1")
	require.NoError(t, err)

	published, err := service.GetPublishedBySlug(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "p1", published.ID)

	_, err = service.Archive(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, project.BuildBuilding, store.Get("p1").BuildStatus)

	_, err = service.GetPublishedBySlug(ctx, "demo")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_ListPublished(t *testing.T) {
	service, store := newService()
	store.Seed(
		&project.Project{ID: "a", Slug: "a", Title: "A", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing, Order: 2000, Status: project.StatusPublished},
		&project.Project{ID: "b", Slug: "b", Title: "B", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing, Order: 1000, Status: project.StatusPublished},
		&project.Project{ID: "c", Slug: "c", Title: "C", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing, Order: 500, Status: project.StatusDraft},
		&project.Project{ID: "d", Slug: "d", Title: "D", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryAdCampaigns, Order: 100, Status: project.StatusPublished},
	)

	projects, total, err := service.ListPublished(context.Background(), project.Filter{
		Service:  taxonomy.ServiceDubbing,
		Category: taxonomy.CategoryOTTDubbing,
	}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, projects, 2)
	assert.Equal(t, "b", projects[0].ID)
	assert.Equal(t, "a", projects[1].ID)

	_, _, err = service.ListPublished(context.Background(), project.Filter{
		Service:  taxonomy.ServiceAudioPost,
		Category: taxonomy.CategoryOTTDubbing,
	}, 20, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

// # Replace

func seedPublished(store *testsupport.ProjectStore) {
	store.Seed(&project.Project{
		ID: "orig", Title: "Demo", Slug: "demo",
		ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing,
		Year: pointer.To(2023), Meta: "Hindi dub", Languages: []string{"hi"},
		Order: 3000, Status: project.StatusPublished,
		SourceVideoPath: "sources/demo/video.mp4", BuildStatus: project.BuildDone,
		HLSPath: "hls/demo/master.m3u8",
	})
}

/*
TestService_Replace verifies the two writes of a successful replacement.

Exactly one new draft exists at the original position and the original is archived.
*/
func TestService_Replace(t *testing.T) {
	service, store := newService()
	seedPublished(store)

	draft, err := service.Replace(context.Background(), "orig", project.ReplaceInput{Title: "Demo v2"})
	require.NoError(t, err)

	assert.Equal(t, "demo-v2", draft.Slug)
	assert.Equal(t, project.StatusDraft, draft.Status)
	assert.Equal(t, 3000.0, draft.Order)
	assert.Equal(t, taxonomy.ServiceDubbing, draft.ServiceSlug)
	assert.Equal(t, taxonomy.CategoryOTTDubbing, draft.CategorySlug)
	assert.Empty(t, draft.HLSPath)
	assert.Empty(t, draft.SourceVideoPath)

	assert.Equal(t, project.StatusArchived, store.Get("orig").Status)

	all := store.All()
	require.Len(t, all, 2)
	drafts := 0
	for _, p := range all {
		if p.Status == project.StatusDraft {
			drafts++
			assert.Equal(t, 3000.0, p.Order)
		}
	}
	assert.Equal(t, 1, drafts)
}

func TestService_Replace_SameSlugRejected(t *testing.T) {
	service, store := newService()
	seedPublished(store)

	_, err := service.Replace(context.Background(), "orig", project.ReplaceInput{})

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Zero(t, store.Calls(testsupport.OpCreate))
}

/*
TestService_Replace_CompensatesDraft archives the new draft again when the
original cannot be archived.
*/
func TestService_Replace_CompensatesDraft(t *testing.T) {
	service, store := newService()
	seedPublished(store)
	boom := errors.New("record store unavailable")
	store.FailOn(testsupport.OpSetStatus, "orig", boom)

	_, err := service.Replace(context.Background(), "orig", project.ReplaceInput{Slug: "demo-v2"})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, project.StatusPublished, store.Get("orig").Status)
	replacement, findErr := store.FindBySlug(context.Background(), "demo-v2")
	require.NoError(t, findErr)
	assert.Equal(t, project.StatusArchived, replacement.Status)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Message, `still holds slug "demo-v2"`)
	assert.Contains(t, appErr.Details, apperr.FieldError{Field: "replacement_id", Message: replacement.ID})
	assert.Contains(t, appErr.Details, apperr.FieldError{Field: project.FieldSlug, Message: "demo-v2"})

	// Retrying with the same slug collides with the archived draft
	_, err = service.Replace(context.Background(), "orig", project.ReplaceInput{Slug: "demo-v2"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)
}

/*
TestService_Replace_ReportsInconsistency surfaces both ids when neither the
archive nor its compensation can be written.
*/
func TestService_Replace_ReportsInconsistency(t *testing.T) {
	service, store := newService()
	seedPublished(store)
	store.FailOn(testsupport.OpSetStatus, "", errors.New("record store unavailable"))

	_, err := service.Replace(context.Background(), "orig", project.ReplaceInput{Slug: "demo-v2"})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeInconsistentState, appErr.Code)
	require.Len(t, appErr.Details, 2)
	assert.Equal(t, "orig", appErr.Details[0].Message)
	assert.NotEmpty(t, appErr.Details[1].Message)
}

// # Reorder

func seedSiblings(store *testsupport.ProjectStore) {
	store.Seed(
		&project.Project{ID: "a", Slug: "a", Title: "A", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing, Order: 1000, Status: project.StatusPublished},
		&project.Project{ID: "b", Slug: "b", Title: "B", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing, Order: 2000, Status: project.StatusDraft},
		&project.Project{ID: "c", Slug: "c", Title: "C", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryOTTDubbing, Order: 3000, Status: project.StatusPublished},
		&project.Project{ID: "x", Slug: "x", Title: "X", ServiceSlug: taxonomy.ServiceDubbing, CategorySlug: taxonomy.CategoryAdCampaigns, Order: 1500, Status: project.StatusPublished},
	)
}

func orders(store *testsupport.ProjectStore) map[string]float64 {
	result := map[string]float64{}
	for _, p := range store.All() {
		result[p.ID] = p.Order
	}
	return result
}

/*
TestService_Reorder swaps exactly two orders and is its own inverse.
*/
func TestService_Reorder(t *testing.T) {
	service, store := newService()
	seedSiblings(store)
	ctx := context.Background()
	before := orders(store)

	siblings, err := service.Reorder(ctx, "b", "c")
	require.NoError(t, err)
	require.Len(t, siblings, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{siblings[0].ID, siblings[1].ID, siblings[2].ID})

	after := orders(store)
	assert.Equal(t, before["b"], after["c"])
	assert.Equal(t, before["c"], after["b"])
	assert.Equal(t, before["a"], after["a"])
	assert.Equal(t, before["x"], after["x"])

	_, err = service.Reorder(ctx, "b", "c")
	require.NoError(t, err)
	assert.Equal(t, before, orders(store))
}

func TestService_Reorder_Rejections(t *testing.T) {
	tests := []struct {
		name          string
		first, second string
		code          string
	}{
		{"Not neighbours", "a", "c", apperr.CodeValidation},
		{"Different category", "a", "x", apperr.CodeValidation},
		{"Same project", "a", "a", apperr.CodeValidation},
		{"Missing project", "a", "zzz", apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService()
			seedSiblings(store)

			_, err := service.Reorder(context.Background(), tt.first, tt.second)

			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
			assert.Zero(t, store.Calls(testsupport.OpSetOrder))
		})
	}
}

func TestService_Reorder_PartialSwapRestored(t *testing.T) {
	service, store := newService()
	seedSiblings(store)
	before := orders(store)
	boom := errors.New("write failed")
	store.FailOn(testsupport.OpSetOrder, "b", boom)

	_, err := service.Reorder(context.Background(), "a", "b")

	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, orders(store))
}

func TestService_Reorder_PartialSwapReported(t *testing.T) {
	service, store := newService()
	seedSiblings(store)
	store.FailAfter(testsupport.OpSetOrder, "", 1, errors.New("write failed"))

	_, err := service.Reorder(context.Background(), "a", "b")

	assert.True(t, apperr.HasCode(err, apperr.CodeInconsistentState))
}
