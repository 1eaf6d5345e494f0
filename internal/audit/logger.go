// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/guesthouse/internal/logging"
)

// saveTimeout bounds a single store write.
const saveTimeout = 5 * time.Second

// Config holds activity log settings.
type Config struct {
	Enabled         bool
	Retention       time.Duration // entries older than this are pruned
	CleanupInterval time.Duration // how often Serve prunes
	BufferSize      int           // queued entries beyond this are dropped
}

// DefaultConfig keeps 90 days and prunes daily.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Retention:       90 * 24 * time.Hour,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
	}
}

// Logger writes entries to a Store from a single background goroutine so
// request handlers never wait on the store. A nil *Logger records nothing.
type Logger struct {
	config Config
	store  Store
	now    func() time.Time

	queue     chan *Event
	quit      chan struct{}
	flushed   chan struct{}
	closeOnce sync.Once
}

// NewLogger starts the writer. Close flushes and stops it.
func NewLogger(store Store, config Config) *Logger {
	def := DefaultConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}

	l := &Logger{
		config:  config,
		store:   store,
		now:     func() time.Time { return time.Now().UTC() },
		queue:   make(chan *Event, config.BufferSize),
		quit:    make(chan struct{}),
		flushed: make(chan struct{}),
	}
	go l.write()
	return l
}

// write saves queued entries until quit, then saves whatever is left.
func (l *Logger) write() {
	defer close(l.flushed)
	for {
		select {
		case e := <-l.queue:
			l.save(e)
		case <-l.quit:
			for {
				select {
				case e := <-l.queue:
					l.save(e)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) save(e *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := l.store.Save(ctx, e); err != nil {
		logging.Error().Err(err).Str("event_type", string(e.Type)).Msg("Failed to save activity entry")
	}
}

// Log queues e without blocking. ID and Timestamp are filled in when empty.
func (l *Logger) Log(e *Event) {
	if l == nil || !l.config.Enabled {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}

	select {
	case l.queue <- e:
	default:
		logging.Warn().Str("event_type", string(e.Type)).Msg("Activity log queue full, dropping entry")
	}
}

// Close waits for queued entries to be saved. Later calls return at once.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.closeOnce.Do(func() { close(l.quit) })
	<-l.flushed
	return nil
}

// Query returns entries matching filter, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Prune deletes entries older than the retention period.
func (l *Logger) Prune(ctx context.Context) (int64, error) {
	return l.store.Delete(ctx, l.now().Add(-l.config.Retention))
}

// Serve prunes once per CleanupInterval until ctx ends. It is the
// suture.Service run in the data layer.
func (l *Logger) Serve(ctx context.Context) error {
	tick := time.NewTicker(l.config.CleanupInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			n, err := l.Prune(ctx)
			switch {
			case err != nil:
				logging.Error().Err(err).Msg("Activity log pruning failed")
			case n > 0:
				logging.Info().Int64("deleted", n).Dur("retention", l.config.Retention).Msg("Pruned activity log")
			}
		}
	}
}

func (l *Logger) String() string {
	return "activity-log-retention"
}
