// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package audit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// keyPrefix keeps activity entries apart from documents in the shared
// BadgerDB. The zero-padded timestamp makes key order chronological.
const keyPrefix = "audit:"

func eventKey(e *Event) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", keyPrefix, e.Timestamp.UnixNano(), e.ID))
}

// keyTime extracts the timestamp from an entry key.
func keyTime(key []byte) (time.Time, bool) {
	rest := strings.TrimPrefix(string(key), keyPrefix)
	ts, _, ok := strings.Cut(rest, ":")
	if !ok {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, n), true
}

// BadgerStore persists entries in the document store's BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps db. The caller owns db and closes it.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Save writes one entry.
func (s *BadgerStore) Save(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(event), data)
	})
}

// Query walks entries newest first until the limit is reached.
func (s *BadgerStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.limit()
	events := make([]Event, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(append([]byte(keyPrefix), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if filter.Until != nil {
				if ts, ok := keyTime(it.Item().Key()); ok && ts.After(*filter.Until) {
					continue
				}
			}
			if filter.Since != nil {
				if ts, ok := keyTime(it.Item().Key()); ok && ts.Before(*filter.Since) {
					break
				}
			}

			var event Event
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if !filter.Matches(&event) {
				continue
			}
			events = append(events, event)
			if len(events) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes entries older than the cutoff.
func (s *BadgerStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			ts, ok := keyTime(it.Item().Key())
			if ok && !ts.Before(olderThan) {
				break
			}
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, fmt.Errorf("delete audit entry: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush audit deletions: %w", err)
	}
	return int64(len(keys)), nil
}

// MemoryStore keeps entries in memory, oldest first. Used in tests and when
// no document store is available.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	maxLen int
}

// NewMemoryStore creates a store holding at most maxLen entries.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{
		events: make([]Event, 0, 64),
		maxLen: maxLen,
	}
}

// Save appends an entry, dropping the oldest tenth when full.
func (s *MemoryStore) Save(ctx context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) >= s.maxLen {
		drop := s.maxLen / 10
		if drop < 1 {
			drop = 1
		}
		s.events = s.events[drop:]
	}
	s.events = append(s.events, *event)
	return nil
}

// Query returns matching entries, newest first.
func (s *MemoryStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.limit()
	results := make([]Event, 0)
	for i := len(s.events) - 1; i >= 0; i-- {
		if !filter.Matches(&s.events[i]) {
			continue
		}
		results = append(results, s.events[i])
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Delete removes entries older than the cutoff.
func (s *MemoryStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for i := range s.events {
		if s.events[i].Timestamp.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, s.events[i])
	}
	s.events = kept
	return deleted, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
