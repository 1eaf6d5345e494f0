// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package cache

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/guesthouse/internal/metrics"
)

type entry struct {
	value   interface{}
	expires time.Time
}

// Cache is a TTL cache safe for concurrent use.
type Cache struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64 // bumped by Clear

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// New creates a cache whose entries live for ttl (5 minutes when ttl is not
// positive). name labels the Prometheus counters. Expired entries are swept
// once per ttl until Close.
func New(name string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &Cache{
		name:    name,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// TTL is the entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key unless it has expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().After(e.expires) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expires.Equal(e.expires) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		ok = false
	}

	if !ok {
		c.misses.Add(1)
		metrics.RecordCacheAccess(c.name, false)
		return nil, false
	}
	c.hits.Add(1)
	metrics.RecordCacheAccess(c.name, true)
	return e.value, true
}

// Set stores value under key for the cache TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Generation identifies the current contents. Read it before computing a
// value and pass it to SetIfGeneration.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// SetIfGeneration stores value only if Clear has not run since gen was read,
// so a value computed before a write is never cached after it. It reports
// whether the value was stored.
func (c *Cache) SetIfGeneration(key string, value interface{}, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
	return true
}

// Clear drops every entry and starts a new generation. Writes that change
// the underlying documents call it so the next read recomputes.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.generation++
	c.mu.Unlock()
	c.evictions.Add(int64(n))
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Keys:      c.Len(),
	}
}

// Close stops the sweeper. Safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes expired entries.
func (c *Cache) sweep() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			c.evictions.Add(1)
		}
	}
}

// Key joins a kind and its parameters into a cache key, for example
// Key("occupancy", 2026) is "occupancy:2026".
func Key(kind string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range params {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}
