// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testsupport

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/taibuivan/stonemedia/internal/core/media"
)

// # Upload Lock

// UploadLocks is an in-memory per-project upload lock.
type UploadLocks struct {
	mu      sync.Mutex
	held    map[string]string
	counter int

	// OnAcquire, when set, runs after a successful Acquire.
	OnAcquire func(projectID string)
}

// NewUploadLocks returns a lock set with nothing held.
func NewUploadLocks() *UploadLocks {
	return &UploadLocks{held: map[string]string{}}
}

// Hold marks projectID as uploading, as if another request held the lock.
func (locks *UploadLocks) Hold(projectID string) {
	locks.mu.Lock()
	defer locks.mu.Unlock()
	locks.held[projectID] = "external"
}

func (locks *UploadLocks) Acquire(_ context.Context, projectID string) (string, bool, error) {
	locks.mu.Lock()
	if _, exists := locks.held[projectID]; exists {
		locks.mu.Unlock()
		return "", false, nil
	}
	locks.counter++
	token := fmt.Sprintf("token-%d", locks.counter)
	locks.held[projectID] = token
	hook := locks.OnAcquire
	locks.mu.Unlock()

	if hook != nil {
		hook(projectID)
	}
	return token, true, nil
}

func (locks *UploadLocks) Release(_ context.Context, projectID, token string) error {
	locks.mu.Lock()
	defer locks.mu.Unlock()

	if locks.held[projectID] == token {
		delete(locks.held, projectID)
	}
	return nil
}

func (locks *UploadLocks) Held(_ context.Context, projectID string) (bool, error) {
	locks.mu.Lock()
	defer locks.mu.Unlock()

	_, exists := locks.held[projectID]
	return exists, nil
}

// # Upload Progress

// ProgressStore is an in-memory upload progress table keyed by project.
type ProgressStore struct {
	mu       sync.Mutex
	progress map[string]map[string]int
}

// NewProgressStore returns an empty progress table.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{progress: map[string]map[string]int{}}
}

func (store *ProgressStore) For(projectID string) media.ProgressObserver {
	return progressWriter{store: store, projectID: projectID}
}

func (store *ProgressStore) Read(_ context.Context, projectID string) (map[string]int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	return maps.Clone(store.progress[projectID]), nil
}

func (store *ProgressStore) Reset(_ context.Context, projectID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.progress, projectID)
	return nil
}

type progressWriter struct {
	store     *ProgressStore
	projectID string
}

func (writer progressWriter) Progress(_ context.Context, file string, percent int) {
	writer.store.mu.Lock()
	defer writer.store.mu.Unlock()

	if writer.store.progress[writer.projectID] == nil {
		writer.store.progress[writer.projectID] = map[string]int{}
	}
	writer.store.progress[writer.projectID][file] = percent
}
