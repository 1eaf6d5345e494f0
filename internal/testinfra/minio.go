// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tomtom215/guesthouse/internal/config"
)

const (
	minioImage    = "minio/minio:RELEASE.2025-04-22T22-12-26Z"
	minioPort     = "9000/tcp"
	minioUser     = "guesthouse"
	minioPassword = "guesthouse-secret"
	minioRegion   = "us-east-1"

	// MediaBucket is created in every MinIO started by StartMinIO.
	MediaBucket = "guesthouse-media"
)

// MinIO is a running MinIO server holding MediaBucket.
type MinIO struct {
	Endpoint string
}

// S3Config returns settings that point the S3 storage backend at m.
func (m *MinIO) S3Config() config.S3Config {
	return config.S3Config{
		Bucket:          MediaBucket,
		Region:          minioRegion,
		Endpoint:        m.Endpoint,
		AccessKeyID:     minioUser,
		SecretAccessKey: minioPassword,
		UsePathStyle:    true,
	}
}

// RequireDocker skips t when no Docker daemon answers.
func RequireDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skip("Docker not available")
	}
}

// testLog sends testcontainers output to the test log.
type testLog struct{ t *testing.T }

func (l testLog) Printf(format string, v ...interface{}) { l.t.Logf(format, v...) }

// StartMinIO starts MinIO for the rest of the test, creates MediaBucket and
// terminates the container on cleanup. The test is skipped without Docker.
func StartMinIO(ctx context.Context, t *testing.T) *MinIO {
	t.Helper()
	RequireDocker(t)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        minioImage,
			ExposedPorts: []string{minioPort},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort(minioPort).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
		Logger:  testLog{t},
	})
	if err != nil {
		t.Fatalf("start minio: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate minio: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, minioPort, "http")
	if err != nil {
		t.Fatalf("minio endpoint: %v", err)
	}
	m := &MinIO{Endpoint: endpoint}

	client := s3.New(s3.Options{
		Region:       minioRegion,
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider(minioUser, minioPassword, ""),
	})
	if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(MediaBucket)}); err != nil {
		t.Fatalf("create bucket %s at %s: %v", MediaBucket, endpoint, err)
	}
	return m
}
