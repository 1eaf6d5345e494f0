// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package storage holds uploaded files: gallery media, house photos and
// booking attachments.
//
// Two backends implement Store. FSStore writes below a directory through a
// go-billy filesystem (memfs in tests). S3Store talks to S3 or any
// S3-compatible server such as MinIO and guards every call with a circuit
// breaker so a storage outage fails fast instead of stalling requests.
//
// Objects are addressed by slash-separated keys built with NewKey. The first
// key segment decides visibility: gallery/ and houses/ are served publicly,
// attachments/ only to the admin surface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/guesthouse/internal/config"
)

// Backend names accepted in configuration.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

var (
	// ErrObjectNotFound is returned when a key has no object.
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidKey is returned for empty, absolute or traversing keys.
	ErrInvalidKey = errors.New("invalid object key")

	// ErrUnavailable is returned while the backend is failing and calls
	// are being short-circuited.
	ErrUnavailable = errors.New("object storage unavailable")
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Store is the object storage contract used by the API.
type Store interface {
	// Put writes r under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens the object. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// Name is the backend name used in logs and metrics.
	Name() string
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalStore(cfg.LocalPath)
	case BackendS3:
		return NewS3Store(ctx, &cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
