// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"io"
)

// # Blob Storage

// BlobStore is the object storage holding sources and HLS output.
type BlobStore interface {

	/*
		Put writes body to path, replacing any existing object.

		Parameters:
		  - context: context.Context
		  - path: string (Slash-separated object path)
		  - contentType: string
		  - body: io.Reader
		  - size: int64 (Expected length; may be zero when unknown)
		  - onProgress: func(int64) (Cumulative bytes written; may be nil)

		Returns:
		  - error: Transfer failures
	*/
	Put(context context.Context, path, contentType string, body io.Reader, size int64, onProgress func(written int64)) error

	/*
		Open streams an existing object.

		Returns:
		  - io.ReadCloser: Object content; the caller closes it
		  - error: apperr.NotFound when the object does not exist
	*/
	Open(context context.Context, path string) (io.ReadCloser, error)
}
