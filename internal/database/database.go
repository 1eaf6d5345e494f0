// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/guesthouse/internal/logging"
)

// Config configures the document store.
type Config struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

// DB is the Badger-backed document store.
type DB struct {
	db  *badger.DB
	now func() time.Time
}

// New opens (or creates) the store.
func New(cfg Config) (*DB, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Document store opened")

	return &DB{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the store.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// Ping checks that the store can serve reads.
func (d *DB) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.db.IsClosed() {
		return fmt.Errorf("document store is closed")
	}
	return d.db.View(func(*badger.Txn) error { return nil })
}

// Raw returns the underlying Badger handle for backups.
func (d *DB) Raw() *badger.DB {
	return d.db
}

func (d *DB) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return txnErr(d.db.Update(fn))
}

func (d *DB) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}
