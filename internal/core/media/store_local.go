// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

// LocalStore implements [BlobStore] on a directory, for development
// without a Firebase project.
type LocalStore struct {
	root string
}

// NewLocalStore constructs a directory backed blob store, creating root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local_store_init_failed: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Put writes body to a temporary sibling file and renames it into place.
func (store *LocalStore) Put(ctx context.Context, path, _ string, body io.Reader, _ int64, onProgress func(written int64)) error {
	target, err := store.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("local_put_failed: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("local_put_failed: %w", err)
	}
	defer os.Remove(temp.Name())

	reader := &progressReader{ctx: ctx, reader: body, onProgress: onProgress}
	if _, err := io.Copy(temp, reader); err != nil {
		_ = temp.Close()
		return fmt.Errorf("local_put_failed: %s: %w", path, err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("local_put_failed: %s: %w", path, err)
	}

	if err := os.Rename(temp.Name(), target); err != nil {
		return fmt.Errorf("local_put_failed: %s: %w", path, err)
	}
	return nil
}

// Open reads an object from the directory.
func (store *LocalStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	target, err := store.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("Object")
	}
	if err != nil {
		return nil, fmt.Errorf("local_open_failed: %s: %w", path, err)
	}
	return file, nil
}

// resolve maps an object path into root, refusing escapes.
func (store *LocalStore) resolve(path string) (string, error) {
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", apperr.ValidationError(fmt.Sprintf("Invalid object path: %q", path))
	}
	return filepath.Join(store.root, local), nil
}

// progressReader reports cumulative bytes and stops when ctx is done.
type progressReader struct {
	ctx        context.Context
	reader     io.Reader
	written    int64
	onProgress func(written int64)
}

func (reader *progressReader) Read(buffer []byte) (int, error) {
	if err := reader.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := reader.reader.Read(buffer)
	if n > 0 {
		reader.written += int64(n)
		if reader.onProgress != nil {
			reader.onProgress(reader.written)
		}
	}
	return n, err
}
