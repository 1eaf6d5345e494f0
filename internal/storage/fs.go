// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
)

const (
	dirPerm     = 0o750
	tempPattern = ".upload-"
)

// FSStore keeps objects as files in a billy filesystem. Keys map directly to
// relative paths.
type FSStore struct {
	fs billy.Filesystem
}

// NewLocalStore roots an FSStore at dir, creating it if needed.
func NewLocalStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("local storage path is empty")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	logging.Info().Str("path", dir).Msg("Using local object storage")
	return NewFSStore(osfs.New(dir)), nil
}

// NewMemoryStore returns an FSStore backed by memory.
func NewMemoryStore() *FSStore {
	return NewFSStore(memfs.New())
}

// NewFSStore wraps an existing billy filesystem.
func NewFSStore(fs billy.Filesystem) *FSStore {
	return &FSStore{fs: fs}
}

// Name implements Store.
func (s *FSStore) Name() string { return BackendLocal }

// Put writes to a temp file in the target directory and renames it into
// place, so readers never see a partial object.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, size int64, _ string) (err error) {
	defer func() { metrics.RecordStorageOperation(BackendLocal, "put", err) }()

	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := path.Dir(key)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("mkdir %q: %w", dir, err)
	}

	tmp, err := s.fs.TempFile(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = s.fs.Remove(tmpName) //nolint:errcheck // best effort cleanup
		if copyErr != nil {
			return fmt.Errorf("write %q: %w", key, copyErr)
		}
		return fmt.Errorf("close %q: %w", key, closeErr)
	}
	if size >= 0 && written != size {
		_ = s.fs.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("write %q: wrote %d bytes, expected %d", key, written, size)
	}

	if err := s.fs.Rename(tmpName, key); err != nil {
		_ = s.fs.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("rename %q: %w", key, err)
	}
	metrics.StorageBytesUploaded.WithLabelValues(BackendLocal).Add(float64(written))
	return nil
}

// Get implements Store. The content type is sniffed from the file head.
func (s *FSStore) Get(ctx context.Context, key string) (_ io.ReadCloser, _ *ObjectInfo, err error) {
	defer func() { metrics.RecordStorageOperation(BackendLocal, "get", err) }()

	if err := ValidateKey(key); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fi, err := s.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrObjectNotFound
		}
		return nil, nil, fmt.Errorf("stat %q: %w", key, err)
	}
	if fi.IsDir() {
		return nil, nil, ErrObjectNotFound
	}

	f, err := s.fs.Open(key)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", key, err)
	}
	contentType, err := Sniff(f)
	if err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return nil, nil, fmt.Errorf("sniff %q: %w", key, err)
	}

	return f, &ObjectInfo{
		Key:         key,
		ContentType: contentType,
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
	}, nil
}

// Delete implements Store.
func (s *FSStore) Delete(ctx context.Context, key string) (err error) {
	defer func() { metrics.RecordStorageOperation(BackendLocal, "delete", err) }()

	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Exists implements Store.
func (s *FSStore) Exists(_ context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	fi, err := s.fs.Stat(key)
	switch {
	case err == nil:
		return !fi.IsDir(), nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat %q: %w", key, err)
	}
}
