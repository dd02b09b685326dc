// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package testsupport holds in-memory fakes shared by service tests.

The fakes implement the same interfaces as the PostgreSQL, Redis and blob
storage adapters and can be told to fail specific operations so that
compensation paths are reachable without a live backend.
*/
package testsupport

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

// Operation names accepted by [ProjectStore.FailOn] and [ProjectStore.Calls].
const (
	OpCreate          = "Create"
	OpUpdateMetadata  = "UpdateMetadata"
	OpSetStatus       = "SetStatus"
	OpSetOrder        = "SetOrder"
	OpSetSources      = "SetSources"
	OpTransitionBuild = "TransitionBuild"
)

type failure struct {
	op    string
	id    string // Empty matches every record
	after int    // Matching calls that still succeed
	err   error
}

// ProjectStore is an in-memory project.Repository.
type ProjectStore struct {
	mu       sync.Mutex
	records  map[string]*project.Project
	failures []*failure
	calls    map[string]int
	clock    time.Time
}

// NewProjectStore returns an empty store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		records: map[string]*project.Project{},
		calls:   map[string]int{},
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Seed inserts records as-is, filling timestamps when missing.
func (store *ProjectStore) Seed(projects ...*project.Project) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, p := range projects {
		record := clone(p)
		if record.CreatedAt.IsZero() {
			record.CreatedAt = store.tick()
			record.UpdatedAt = record.CreatedAt
		}
		store.records[record.ID] = record
	}
}

// FailOn makes every call of op on id (or any id when empty) return err.
func (store *ProjectStore) FailOn(op, id string, err error) {
	store.FailAfter(op, id, 0, err)
}

// FailAfter lets the first n matching calls succeed and fails the rest with err.
func (store *ProjectStore) FailAfter(op, id string, n int, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.failures = append(store.failures, &failure{op: op, id: id, after: n, err: err})
}

// Calls returns how many times op was invoked, failed calls included.
func (store *ProjectStore) Calls(op string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.calls[op]
}

// Get returns a copy of a stored record or nil.
func (store *ProjectStore) Get(id string) *project.Project {
	store.mu.Lock()
	defer store.mu.Unlock()

	if record, ok := store.records[id]; ok {
		return clone(record)
	}
	return nil
}

// All returns copies of every record in ascending order.
func (store *ProjectStore) All() []*project.Project {
	projects, _, _ := store.List(context.Background(), project.Filter{}, 0, 0)
	return projects
}

// # project.Repository

func (store *ProjectStore) Create(_ context.Context, p *project.Project) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.record(OpCreate, p.ID); err != nil {
		return err
	}
	for _, existing := range store.records {
		if existing.Slug == p.Slug {
			return apperr.Conflict("Project conflicts with an existing record (project_slug_key)")
		}
	}

	p.CreatedAt = store.tick()
	p.UpdatedAt = p.CreatedAt
	store.records[p.ID] = clone(p)
	return nil
}

func (store *ProjectStore) FindByID(_ context.Context, id string) (*project.Project, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.records[id]
	if !ok {
		return nil, apperr.NotFound("Project")
	}
	return clone(record), nil
}

func (store *ProjectStore) FindBySlug(_ context.Context, slug string) (*project.Project, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, record := range store.records {
		if record.Slug == slug {
			return clone(record), nil
		}
	}
	return nil, apperr.NotFound("Project")
}

func (store *ProjectStore) List(_ context.Context, filter project.Filter, limit, offset int) ([]*project.Project, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matched := []*project.Project{}
	for _, record := range store.records {
		if matches(record, filter) {
			matched = append(matched, clone(record))
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Order != matched[j].Order {
			return matched[i].Order < matched[j].Order
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset > 0 {
		if offset >= len(matched) {
			return []*project.Project{}, total, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (store *ProjectStore) LastOrder(_ context.Context, filter project.Filter) (float64, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var last float64
	found := false
	for _, record := range store.records {
		if !matches(record, filter) {
			continue
		}
		if !found || record.Order > last {
			last = record.Order
			found = true
		}
	}
	return last, found, nil
}

func (store *ProjectStore) UpdateMetadata(_ context.Context, p *project.Project) error {
	return store.mutate(OpUpdateMetadata, p.ID, func(record *project.Project) error {
		for id, existing := range store.records {
			if id != p.ID && existing.Slug == p.Slug {
				return apperr.Conflict("Project conflicts with an existing record (project_slug_key)")
			}
		}
		record.Title = p.Title
		record.Slug = p.Slug
		record.ServiceSlug = p.ServiceSlug
		record.CategorySlug = p.CategorySlug
		record.Year = p.Year
		record.Meta = p.Meta
		record.Languages = slices.Clone(p.Languages)
		record.Order = p.Order
		record.Status = p.Status
		record.HLSPath = p.HLSPath
		return nil
	})
}

func (store *ProjectStore) SetStatus(_ context.Context, id string, status project.Status) error {
	return store.mutate(OpSetStatus, id, func(record *project.Project) error {
		record.Status = status
		return nil
	})
}

func (store *ProjectStore) SetOrder(_ context.Context, id string, order float64) error {
	return store.mutate(OpSetOrder, id, func(record *project.Project) error {
		record.Order = order
		return nil
	})
}

func (store *ProjectStore) SetSources(_ context.Context, id string, sources project.Sources) error {
	return store.mutate(OpSetSources, id, func(record *project.Project) error {
		record.SourceVideoPath = sources.VideoPath
		record.SourceAudioPaths = cloneMap(sources.AudioPaths)
		record.BuildStatus = project.BuildIdle
		record.BuildError = ""
		return nil
	})
}

func (store *ProjectStore) TransitionBuild(_ context.Context, id string, from []project.BuildStatus, next project.BuildState) (bool, error) {
	applied := false
	err := store.mutate(OpTransitionBuild, id, func(record *project.Project) error {
		if !slices.Contains(from, record.BuildStatus) {
			return nil
		}
		record.BuildStatus = next.Status
		record.BuildError = next.Error
		if next.HLSPath != "" {
			record.HLSPath = next.HLSPath
		}
		applied = true
		return nil
	})
	return applied, err
}

// # Internal Helpers

// mutate applies fn to the stored record under the lock.
func (store *ProjectStore) mutate(op, id string, fn func(record *project.Project) error) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.record(op, id); err != nil {
		return err
	}

	record, ok := store.records[id]
	if !ok {
		return apperr.NotFound("Project")
	}
	if err := fn(record); err != nil {
		return err
	}
	record.UpdatedAt = store.tick()
	return nil
}

// record counts the call and returns an injected failure if one applies.
func (store *ProjectStore) record(op, id string) error {
	store.calls[op]++
	for _, f := range store.failures {
		if f.op != op || (f.id != "" && f.id != id) {
			continue
		}
		if f.after > 0 {
			f.after--
			continue
		}
		return f.err
	}
	return nil
}

func (store *ProjectStore) tick() time.Time {
	store.clock = store.clock.Add(time.Second)
	return store.clock
}

func matches(record *project.Project, filter project.Filter) bool {
	if filter.Service != "" && record.ServiceSlug != filter.Service {
		return false
	}
	if filter.Category != "" && record.CategorySlug != filter.Category {
		return false
	}
	if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, record.Status) {
		return false
	}
	return true
}

func clone(p *project.Project) *project.Project {
	copied := *p
	copied.Languages = slices.Clone(p.Languages)
	copied.SourceAudioPaths = cloneMap(p.SourceAudioPaths)
	if p.Year != nil {
		year := *p.Year
		copied.Year = &year
	}
	return &copied
}

func cloneMap(source map[string]string) map[string]string {
	copied := make(map[string]string, len(source))
	for key, value := range source {
		copied[key] = value
	}
	return copied
}
