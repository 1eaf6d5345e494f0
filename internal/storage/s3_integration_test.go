// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

//go:build integration

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/guesthouse/internal/config"
	"github.com/tomtom215/guesthouse/internal/testinfra"
)

func TestS3Store_MinIO(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	minio := testinfra.StartMinIO(ctx, t)
	store, err := New(ctx, &config.StorageConfig{Backend: BackendS3, S3: minio.S3Config()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	key := NewKey(PrefixAttachments, "passport.pdf")
	if err := store.Put(ctx, key, bytes.NewReader(pdfHeader), int64(len(pdfHeader)), "application/pdf"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	rc, info, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(body, pdfHeader) {
		t.Error("body mismatch")
	}
	if info.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", info.ContentType)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, err := store.Exists(ctx, key); err != nil || ok {
		t.Errorf("Exists after delete = %v, %v", ok, err)
	}
	if _, _, err := store.Get(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Get missing = %v, want ErrObjectNotFound", err)
	}
}
