// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

// gcsChunkSize is the resumable upload chunk; progress is reported once per chunk.
const gcsChunkSize = 8 << 20

// GCSStore implements [BlobStore] on the Firebase Cloud Storage bucket.
type GCSStore struct {
	bucket *storage.BucketHandle
}

// NewGCSStore constructs a bucket backed blob store.
func NewGCSStore(bucket *storage.BucketHandle) *GCSStore {
	return &GCSStore{bucket: bucket}
}

/*
Put streams body into the object with a resumable, chunked upload.

Description: The object only becomes visible once the writer closes
successfully. A failed copy cancels the upload so no partial object is
committed.
*/
func (store *GCSStore) Put(ctx context.Context, path, contentType string, body io.Reader, size int64, onProgress func(written int64)) error {
	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := store.bucket.Object(path).NewWriter(uploadCtx)
	writer.ContentType = contentType
	writer.ChunkSize = gcsChunkSize
	if onProgress != nil {
		writer.ProgressFunc = onProgress
	}

	if _, err := io.Copy(writer, body); err != nil {
		cancel()
		_ = writer.Close()
		return fmt.Errorf("gcs_put_failed: %s: %w", path, err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("gcs_put_failed: %s: %w", path, err)
	}
	return nil
}

// Open streams an object from the bucket.
func (store *GCSStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	reader, err := store.bucket.Object(path).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, apperr.NotFound("Object")
	}
	if err != nil {
		return nil, fmt.Errorf("gcs_open_failed: %s: %w", path, err)
	}
	return reader, nil
}
