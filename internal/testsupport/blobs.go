// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testsupport

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

// BlobStore is an in-memory media.BlobStore that records the order of writes.
type BlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
	fail    map[string]error

	// ChunkSize controls how often progress is reported during Put.
	ChunkSize int
}

// NewBlobStore returns an empty store reporting progress every 4 bytes.
func NewBlobStore() *BlobStore {
	return &BlobStore{objects: map[string][]byte{}, fail: map[string]error{}, ChunkSize: 4}
}

// FailOn makes Put on path return err after consuming the body.
func (store *BlobStore) FailOn(path string, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.fail[path] = err
}

// Set stores an object directly.
func (store *BlobStore) Set(path string, content []byte) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.objects[path] = content
}

// Object returns a stored object and whether it exists.
func (store *BlobStore) Object(path string) ([]byte, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	content, ok := store.objects[path]
	return content, ok
}

// Puts returns every attempted Put path in call order.
func (store *BlobStore) Puts() []string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]string(nil), store.puts...)
}

func (store *BlobStore) Put(ctx context.Context, path, _ string, body io.Reader, _ int64, onProgress func(written int64)) error {
	store.mu.Lock()
	store.puts = append(store.puts, path)
	failure := store.fail[path]
	chunk := store.ChunkSize
	store.mu.Unlock()

	var buffer bytes.Buffer
	part := make([]byte, chunk)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := body.Read(part)
		if n > 0 {
			buffer.Write(part[:n])
			if onProgress != nil {
				onProgress(int64(buffer.Len()))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	if failure != nil {
		return failure
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.objects[path] = buffer.Bytes()
	return nil
}

func (store *BlobStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	content, ok := store.objects[path]
	if !ok {
		return nil, apperr.NotFound("Object")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// # Progress

// ProgressEvent is one observed progress report.
type ProgressEvent struct {
	File    string
	Percent int
}

// ProgressRecorder is a media.ProgressObserver keeping every report.
type ProgressRecorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (recorder *ProgressRecorder) Progress(_ context.Context, file string, percent int) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.events = append(recorder.events, ProgressEvent{File: file, Percent: percent})
}

// Events returns a copy of every report in arrival order.
func (recorder *ProgressRecorder) Events() []ProgressEvent {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]ProgressEvent(nil), recorder.events...)
}

// For returns the percentages reported for one file.
func (recorder *ProgressRecorder) For(file string) []int {
	var percents []int
	for _, event := range recorder.Events() {
		if event.File == file {
			percents = append(percents, event.Percent)
		}
	}
	return percents
}
