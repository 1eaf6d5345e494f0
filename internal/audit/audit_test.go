// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package audit

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func openBadger(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(100),
		"badger": NewBadgerStore(openBadger(t)),
	}
}

var base = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s Store) {
	t.Helper()
	events := []Event{
		{ID: "e1", Timestamp: base, Type: EventTypeLogin, Actor: UserActor("admin", "admin")},
		{ID: "e2", Timestamp: base.Add(time.Minute), Type: EventTypeBookingAssigned, Actor: UserActor("staff", "staff"), Target: &Target{Type: "booking", ID: "b1"}},
		{ID: "e3", Timestamp: base.Add(2 * time.Minute), Type: EventTypeBookingCreated, Actor: PublicActor(), Target: &Target{Type: "booking", ID: "b2"}},
		{ID: "e4", Timestamp: base.Add(3 * time.Minute), Type: EventTypeHouseDeleted, Actor: UserActor("admin", "admin"), Target: &Target{Type: "house", ID: "h1"}},
	}
	for i := range events {
		if err := s.Save(context.Background(), &events[i]); err != nil {
			t.Fatalf("save %s: %v", events[i].ID, err)
		}
	}
}

func ids(events []Event) string {
	out := ""
	for _, e := range events {
		out += e.ID + " "
	}
	return out
}

func TestStores_Query(t *testing.T) {
	t.Parallel()

	since := base.Add(time.Minute)
	until := base.Add(2 * time.Minute)

	tests := []struct {
		name   string
		filter QueryFilter
		want   string
	}{
		{"all newest first", QueryFilter{}, "e4 e3 e2 e1 "},
		{"limit", QueryFilter{Limit: 2}, "e4 e3 "},
		{"by type", QueryFilter{Types: []EventType{EventTypeBookingAssigned, EventTypeBookingCreated}}, "e3 e2 "},
		{"by username", QueryFilter{Username: "admin"}, "e4 e1 "},
		{"by target type", QueryFilter{TargetType: "booking"}, "e3 e2 "},
		{"by target id", QueryFilter{TargetID: "h1"}, "e4 "},
		{"time window", QueryFilter{Since: &since, Until: &until}, "e3 e2 "},
		{"no match", QueryFilter{Username: "nobody"}, ""},
	}

	for name, store := range stores(t) {
		store := store
		seed(t, store)
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := store.Query(context.Background(), tt.filter)
				if err != nil {
					t.Fatalf("query: %v", err)
				}
				if ids(got) != tt.want {
					t.Errorf("got %q, want %q", ids(got), tt.want)
				}
			})
		}
	}
}

func TestStores_Delete(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		store := store
		t.Run(name, func(t *testing.T) {
			seed(t, store)

			n, err := store.Delete(context.Background(), base.Add(2*time.Minute))
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
			if n != 2 {
				t.Errorf("deleted %d, want 2", n)
			}

			got, err := store.Query(context.Background(), QueryFilter{})
			if err != nil {
				t.Fatal(err)
			}
			if ids(got) != "e4 e3 " {
				t.Errorf("remaining %q", ids(got))
			}

			n, err = store.Delete(context.Background(), base)
			if err != nil || n != 0 {
				t.Errorf("second delete = %d, %v", n, err)
			}
		})
	}
}

func TestMemoryStore_Bounded(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(10)
	for i := 0; i < 25; i++ {
		e := Event{ID: fmt.Sprint(i), Timestamp: base.Add(time.Duration(i) * time.Second)}
		if err := s.Save(context.Background(), &e); err != nil {
			t.Fatal(err)
		}
	}
	if s.Len() > 10 {
		t.Errorf("Len = %d, want <= 10", s.Len())
	}
	got, _ := s.Query(context.Background(), QueryFilter{Limit: 1})
	if len(got) != 1 || got[0].ID != "24" {
		t.Errorf("newest = %+v", got)
	}
}

func TestQueryFilter_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{0, DefaultQueryLimit},
		{-5, DefaultQueryLimit},
		{10, 10},
		{MaxQueryLimit + 1, MaxQueryLimit},
	}
	for _, tt := range tests {
		f := QueryFilter{Limit: tt.in}
		if got := f.limit(); got != tt.want {
			t.Errorf("limit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LogAndClose(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(100)
	logger := NewLogger(store, Config{Enabled: true, BufferSize: 10, Retention: time.Hour})

	ctx := context.Background()
	src := Source{IPAddress: "203.0.113.7"}
	logger.LogLogin(ctx, UserActor("admin", "admin"), src)
	logger.LogLoginFailure(ctx, "mallory", src, "invalid credentials")
	logger.LogAccessDenied(ctx, UserActor("staff", "staff"), src, "/api/v1/admin/backups", "write")
	logger.LogChange(ctx, EventTypeBookingAssigned, UserActor("staff", "staff"), src,
		Target{Type: "booking", ID: "b1"}, "Booking assigned", map[string]interface{}{"house_id": "h1"})
	logger.LogLogout(ctx, UserActor("admin", "admin"), src)

	// Close drains the buffer.
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	events, err := logger.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	for _, e := range events {
		if e.ID == "" || e.Timestamp.IsZero() {
			t.Errorf("event missing id or timestamp: %+v", e)
		}
		if e.Source.IPAddress != "203.0.113.7" {
			t.Errorf("source = %+v", e.Source)
		}
	}

	failures, _ := logger.Query(ctx, QueryFilter{Types: []EventType{EventTypeLoginFailure}})
	if len(failures) != 1 || failures[0].Outcome != OutcomeFailure || failures[0].Actor.Username != "mallory" {
		t.Errorf("login failure = %+v", failures)
	}

	assigned, _ := logger.Query(ctx, QueryFilter{TargetID: "b1"})
	if len(assigned) != 1 || string(assigned[0].Metadata) != `{"house_id":"h1"}` {
		t.Errorf("assignment = %+v", assigned)
	}
}

func TestLogger_Disabled(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(100)
	logger := NewLogger(store, Config{Enabled: false, BufferSize: 10})
	logger.LogLogin(context.Background(), UserActor("admin", "admin"), Source{})
	_ = logger.Close()

	if store.Len() != 0 {
		t.Errorf("disabled logger stored %d events", store.Len())
	}
}

func TestLogger_NilIsNoop(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.LogLogin(context.Background(), UserActor("admin", "admin"), Source{})
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLogger_Prune(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(100)
	logger := NewLogger(store, Config{Enabled: true, BufferSize: 10, Retention: 24 * time.Hour})
	logger.now = func() time.Time { return base.Add(48 * time.Hour) }
	t.Cleanup(func() { _ = logger.Close() })

	seed(t, store)
	recent := Event{ID: "recent", Timestamp: base.Add(47 * time.Hour)}
	_ = store.Save(context.Background(), &recent)

	n, err := logger.Prune(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 || store.Len() != 1 {
		t.Errorf("pruned %d, %d left", n, store.Len())
	}
}

func TestLogger_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	logger := NewLogger(NewMemoryStore(10), Config{Enabled: true, CleanupInterval: time.Hour})
	t.Cleanup(func() { _ = logger.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- logger.Serve(ctx) }()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestSourceFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.4:52311"
	r.Header.Set("User-Agent", "Mozilla/5.0\nInjected")

	src := SourceFromRequest(r)
	if src.IPAddress != "198.51.100.4" {
		t.Errorf("IPAddress = %q", src.IPAddress)
	}
	if src.UserAgent != "Mozilla/5.0 Injected" {
		t.Errorf("UserAgent = %q", src.UserAgent)
	}

	r.RemoteAddr = "198.51.100.5"
	if got := SourceFromRequest(r).IPAddress; got != "198.51.100.5" {
		t.Errorf("bare address = %q", got)
	}
}

func TestValidEventType(t *testing.T) {
	t.Parallel()

	if !ValidEventType(EventTypeBookingDeleted) {
		t.Error("booking.deleted should be valid")
	}
	if ValidEventType("booking.exploded") {
		t.Error("unknown type accepted")
	}
}
