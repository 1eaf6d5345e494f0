// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package services

import (
	"context"
)

// BackupScheduler is satisfied by *backup.Manager.
type BackupScheduler interface {
	Serve(ctx context.Context) error
}

// BackupService runs scheduled document store backups in the data layer.
type BackupService struct {
	scheduler BackupScheduler
	name      string
}

// NewBackupService wraps scheduler.
func NewBackupService(scheduler BackupScheduler) *BackupService {
	return &BackupService{
		scheduler: scheduler,
		name:      "backup-scheduler",
	}
}

// Serve implements suture.Service.
func (b *BackupService) Serve(ctx context.Context) error {
	return b.scheduler.Serve(ctx)
}

// String implements fmt.Stringer for logging.
func (b *BackupService) String() string {
	return b.name
}
