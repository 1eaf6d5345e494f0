// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package backup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/guesthouse/internal/config"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
	"github.com/tomtom215/guesthouse/internal/models"
)

const (
	filePrefix = "guesthouse-"
	fileSuffix = ".bak"

	// timestampLayout sorts lexically in time order.
	timestampLayout = "20060102-150405.000"
)

// ErrBackupInProgress is returned when Create is called while another backup runs.
var ErrBackupInProgress = errors.New("backup already in progress")

// Manager creates and prunes document store backups.
type Manager struct {
	db        *badger.DB
	dir       string
	interval  time.Duration
	retention int

	// running serializes backups; TryLock keeps a manual trigger from
	// queueing behind the scheduler.
	running sync.Mutex
	now     func() time.Time
}

// NewManager creates the backup directory if needed.
func NewManager(db *badger.DB, cfg *config.BackupConfig) (*Manager, error) {
	if db == nil {
		return nil, fmt.Errorf("backup: database is required")
	}
	if cfg == nil || strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("backup: directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	return &Manager{
		db:        db,
		dir:       cfg.Dir,
		interval:  cfg.Interval,
		retention: cfg.Retention,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a full backup and applies retention.
func (m *Manager) Create(ctx context.Context) (*models.BackupInfo, error) {
	if !m.running.TryLock() {
		return nil, ErrBackupInProgress
	}
	defer m.running.Unlock()

	log := logging.WithComponent("backup")
	start := time.Now()
	info, err := m.write(ctx)
	metrics.RecordBackup(time.Since(start), err)
	if err != nil {
		log.Error().Err(err).Msg("Backup failed")
		return nil, err
	}

	log.Info().
		Str("name", info.Name).
		Int64("size_bytes", info.Size).
		Dur("duration", time.Since(start)).
		Msg("Backup completed")

	if _, err := m.applyRetention(); err != nil {
		log.Warn().Err(err).Msg("Backup retention failed")
	}
	return info, nil
}

func (m *Manager) write(ctx context.Context) (*models.BackupInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := m.now()
	name := filePrefix + created.Format(timestampLayout) + fileSuffix
	final := filepath.Join(m.dir, name)
	tmp := final + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}

	w := bufio.NewWriter(f)
	if _, err := m.db.Backup(w, 0); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("badger backup: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("flush backup: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("sync backup: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("finalize backup: %w", err)
	}

	st, err := os.Stat(final)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}
	return &models.BackupInfo{Name: name, Size: st.Size(), CreatedAt: created}, nil
}

// List returns completed backups, newest first.
func (m *Manager) List() ([]models.BackupInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	backups := make([]models.BackupInfo, 0, len(entries))
	for _, e := range entries {
		created, ok := parseName(e.Name())
		if e.IsDir() || !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, models.BackupInfo{
			Name:      e.Name(),
			Size:      fi.Size(),
			CreatedAt: created,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// parseName extracts the timestamp from a backup file name.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	ts := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	t, err := time.ParseInLocation(timestampLayout, ts, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Serve implements suture.Service: one backup per interval until ctx ends.
func (m *Manager) Serve(ctx context.Context) error {
	log := logging.WithComponent("backup")
	log.Info().
		Str("dir", m.dir).
		Dur("interval", m.interval).
		Int("retention", m.retention).
		Msg("Backup scheduler started")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Create logs failures; they must not restart the scheduler.
			_, _ = m.Create(ctx)
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (m *Manager) String() string {
	return "backup-scheduler"
}
