// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/auth"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnforce_Policy(t *testing.T) {
	t.Parallel()

	e := newTestEnforcer(t)

	tests := []struct {
		role   string
		path   string
		action string
		want   bool
	}{
		// admin
		{"admin", "/api/v1/admin/houses", ActionWrite, true},
		{"admin", "/api/v1/admin/houses/h1", ActionWrite, true},
		{"admin", "/api/v1/admin/backups", ActionWrite, true},
		{"admin", "/api/v1/admin/recommendations/r1", ActionWrite, true},

		// staff reads
		{"staff", "/api/v1/admin/houses", ActionRead, true},
		{"staff", "/api/v1/admin/backups", ActionRead, true},
		{"staff", "/api/v1/admin/stats/summary", ActionRead, true},
		{"staff", "/api/v1/admin/bookings/b1/attachment", ActionRead, true},
		{"staff", "/api/v1/admin/houses/h1/guests", ActionRead, true},
		{"staff", "/api/v1/admin/guests", ActionRead, true},
		{"staff", "/api/v1/admin/ws", ActionRead, true},

		// staff writes
		{"staff", "/api/v1/admin/bookings/b1", ActionWrite, true},
		{"staff", "/api/v1/admin/bookings/b1/assign", ActionWrite, true},
		{"staff", "/api/v1/admin/houses/h1/guests/b1", ActionWrite, true},
		{"staff", "/api/v1/admin/gallery", ActionWrite, true},

		// staff denied
		{"staff", "/api/v1/admin/houses/h1", ActionWrite, false},
		{"staff", "/api/v1/admin/houses", ActionWrite, false},
		{"staff", "/api/v1/admin/houses/h1/photos", ActionWrite, false},
		{"staff", "/api/v1/admin/gallery/g1", ActionWrite, false},
		{"staff", "/api/v1/admin/recommendations", ActionWrite, false},
		{"staff", "/api/v1/admin/backups", ActionWrite, false},
		{"staff", "/api/v1/admin/audit", ActionRead, false},
		{"admin", "/api/v1/admin/audit", ActionRead, true},

		// unknown roles and paths
		{"guest", "/api/v1/admin/houses", ActionRead, false},
		{"", "/api/v1/admin/houses", ActionRead, false},
		{"admin", "/api/v1/other", ActionRead, false},
	}

	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.path, tt.action)
		if err != nil {
			t.Fatalf("Enforce(%s,%s,%s): %v", tt.role, tt.path, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.path, tt.action, got, tt.want)
		}
	}
}

func TestEnforce_CachesDecisions(t *testing.T) {
	t.Parallel()

	e := newTestEnforcer(t)
	for i := 0; i < 3; i++ {
		if ok, _ := e.Enforce("staff", "/api/v1/admin/houses", ActionRead); !ok {
			t.Fatal("expected allow")
		}
	}
	if ok, _ := e.Enforce("staff", "/api/v1/admin/houses", ActionWrite); ok {
		t.Fatal("expected deny")
	}

	s := e.decisions.Stats()
	if s.Keys != 2 || s.Hits != 2 || s.Misses != 2 {
		t.Errorf("decision cache = %+v, want 2 keys, 2 hits, 2 misses", s)
	}
}

func TestEnforce_Uncached(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcer(&EnforcerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if e.decisions != nil {
		t.Fatal("cache created although disabled")
	}
	if ok, err := e.Enforce("admin", "/api/v1/admin/audit", ActionRead); err != nil || !ok {
		t.Errorf("Enforce = %v, %v", ok, err)
	}
}

func TestMethodToAction(t *testing.T) {
	t.Parallel()

	for method, want := range map[string]string{
		http.MethodGet:     ActionRead,
		http.MethodHead:    ActionRead,
		http.MethodOptions: ActionRead,
		http.MethodPost:    ActionWrite,
		http.MethodPut:     ActionWrite,
		http.MethodPatch:   ActionWrite,
		http.MethodDelete:  ActionWrite,
	} {
		if got := MethodToAction(method); got != want {
			t.Errorf("MethodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}

func TestMiddleware_AuthorizeRequest(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(newTestEnforcer(t))
	handler := mw.AuthorizeRequest(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		claims *auth.Claims
		method string
		path   string
		want   int
	}{
		{"admin delete house", &auth.Claims{Username: "admin", Role: "admin"}, http.MethodDelete, "/api/v1/admin/houses/h1", http.StatusNoContent},
		{"staff delete house", &auth.Claims{Username: "staff", Role: "staff"}, http.MethodDelete, "/api/v1/admin/houses/h1", http.StatusForbidden},
		{"staff assign", &auth.Claims{Username: "staff", Role: "staff"}, http.MethodPost, "/api/v1/admin/bookings/b1/assign", http.StatusNoContent},
		{"no claims", nil, http.MethodGet, "/api/v1/admin/houses", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.claims != nil {
			req = req.WithContext(auth.ContextWithClaims(req.Context(), tt.claims))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.want)
		}
	}
}

func TestMiddleware_RecordsDenials(t *testing.T) {
	t.Parallel()

	store := audit.NewMemoryStore(10)
	logger := audit.NewLogger(store, audit.Config{Enabled: true, BufferSize: 10})

	mw := NewMiddleware(newTestEnforcer(t))
	mw.SetAuditLogger(logger)
	handler := mw.AuthorizeRequest(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, path := range []string{"/api/v1/admin/houses", "/api/v1/admin/audit"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "192.0.2.10:4000"
		req = req.WithContext(auth.ContextWithClaims(req.Context(), &auth.Claims{Username: "sam", Role: "staff"}))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	events, err := store.Query(context.Background(), audit.QueryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Type != audit.EventTypeAccessDenied || e.Actor.Username != "sam" || e.Target.ID != "/api/v1/admin/audit" {
		t.Errorf("event = %+v", e)
	}
	if e.Source.IPAddress != "192.0.2.10" {
		t.Errorf("source = %+v", e.Source)
	}
}
