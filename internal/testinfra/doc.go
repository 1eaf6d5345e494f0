// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package testinfra starts containers for integration tests. StartMinIO runs
// a real S3-compatible server so the S3 media backend is tested against real
// request signing and error responses:
//
//	minio := testinfra.StartMinIO(ctx, t)
//	store, err := storage.New(ctx, &config.StorageConfig{Backend: storage.BackendS3, S3: minio.S3Config()})
//
// The tests are behind the integration build tag and skip without Docker:
//
//	go test -tags integration ./internal/storage/...
package testinfra
