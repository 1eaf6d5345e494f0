// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package backup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/guesthouse/internal/config"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	err = db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("house:h1"), []byte(`{"id":"h1","name":"Sea View"}`))
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

// newTestManager returns a manager whose clock advances one minute per backup.
func newTestManager(t *testing.T, db *badger.DB, retention int) *Manager {
	t.Helper()
	m, err := NewManager(db, &config.BackupConfig{
		Enabled:   true,
		Dir:       t.TempDir(),
		Interval:  time.Hour,
		Retention: retention,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	clock := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return m
}

func TestNewManager_Validation(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if _, err := NewManager(nil, &config.BackupConfig{Dir: t.TempDir()}); err == nil {
		t.Error("expected error for nil database")
	}
	if _, err := NewManager(db, &config.BackupConfig{Dir: " "}); err == nil {
		t.Error("expected error for empty directory")
	}

	dir := filepath.Join(t.TempDir(), "nested", "backups")
	if _, err := NewManager(db, &config.BackupConfig{Dir: dir}); err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Errorf("backup directory not created: %v", err)
	}
}

func TestManager_CreateAndRestore(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	m := newTestManager(t, db, 5)

	info, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if info.Name != "guesthouse-20260301-030100.000.bak" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Size == 0 {
		t.Error("backup is empty")
	}
	if _, err := os.Stat(filepath.Join(m.Dir(), info.Name+".tmp")); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	// The file must load into a fresh store.
	data, err := os.ReadFile(filepath.Join(m.Dir(), info.Name))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	restored, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open restore target: %v", err)
	}
	defer restored.Close()
	if err := restored.Load(bytes.NewReader(data), 16); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	err = restored.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("house:h1"))
		return err
	})
	if err != nil {
		t.Errorf("restored store missing house: %v", err)
	}
}

func TestManager_ListNewestFirst(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, openTestDB(t), 10)
	for i := 0; i < 3; i++ {
		if _, err := m.Create(context.Background()); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(m.Dir(), "guesthouse-garbage.bak"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("List() returned %d backups, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].CreatedAt.After(backups[i].CreatedAt) {
			t.Errorf("backups not sorted newest first: %v", backups)
		}
	}
}

func TestManager_Retention(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, openTestDB(t), 2)
	var last string
	for i := 0; i < 4; i++ {
		info, err := m.Create(context.Background())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		last = info.Name
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("kept %d backups, want 2", len(backups))
	}
	if backups[0].Name != last {
		t.Errorf("newest backup = %q, want %q", backups[0].Name, last)
	}
}

func TestManager_CreateInProgress(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, openTestDB(t), 2)
	m.running.Lock()
	defer m.running.Unlock()

	if _, err := m.Create(context.Background()); err != ErrBackupInProgress {
		t.Errorf("Create() error = %v, want ErrBackupInProgress", err)
	}
}

func TestManager_CreateCanceled(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, openTestDB(t), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Create(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestManager_Serve(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, openTestDB(t), 3)
	m.interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if backups, _ := m.List(); len(backups) >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != context.Canceled {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) < 2 || len(backups) > 3 {
		t.Errorf("scheduler produced %d backups", len(backups))
	}
	if m.String() != "backup-scheduler" {
		t.Errorf("String() = %q", m.String())
	}
}

func TestParseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ok   bool
	}{
		{"guesthouse-20260301-030100.000.bak", true},
		{"guesthouse-20260301-030100.000.bak.tmp", false},
		{"other-20260301-030100.000.bak", false},
		{"guesthouse-yesterday.bak", false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
