// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/guesthouse/internal/logging"
)

func testLogger(w io.Writer) *slog.Logger {
	return slog.New(logging.NewSlogHandlerWithLogger(logging.NewTestLogger(w)))
}

// syncBuffer is written by suture's goroutines and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForStart(t *testing.T, svc *MockService, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.StartCount() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s started %d times, want at least %d", svc, svc.StartCount(), n)
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("creates hierarchical supervisor tree", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(io.Discard), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if len(tree.children) != 3 {
			t.Errorf("children = %d, want 3", len(tree.children))
		}
	})

	t.Run("nil logger is rejected", func(t *testing.T) {
		if _, err := NewSupervisorTree(nil, TreeConfig{}); err == nil {
			t.Error("expected error for nil logger")
		}
	})

	t.Run("unknown layer panics", func(t *testing.T) {
		tree, _ := NewSupervisorTree(testLogger(io.Discard), TreeConfig{})
		defer func() {
			if recover() == nil {
				t.Error("Add did not panic")
			}
		}()
		tree.Add(Layer("storage-layer"), NewMockService("x"))
	})

	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(io.Discard), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	t.Run("all layers start and stop", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(io.Discard), TreeConfig{
			FailureBackoff:  100 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}

		backup := NewMockService("backup-scheduler")
		hub := NewMockService("websocket-hub")
		server := NewMockService("http-server")
		tree.Add(LayerData, backup)
		tree.Add(LayerMessaging, hub)
		tree.Add(LayerAPI, server)

		if got := tree.Services(LayerData); len(got) != 1 || got[0] != "backup-scheduler" {
			t.Errorf("Services(data) = %v", got)
		}

		ctx, cancel := context.WithCancel(context.Background())
		errCh := tree.ServeBackground(ctx)

		for _, svc := range []*MockService{backup, hub, server} {
			waitForStart(t, svc, 1)
		}
		cancel()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("tree did not shut down in time")
		}

		report, err := tree.UnstoppedServiceReport()
		if err != nil {
			t.Fatalf("UnstoppedServiceReport() error = %v", err)
		}
		if len(report) != 0 {
			t.Errorf("unstopped services: %v", report)
		}
	})
}

func TestSupervisorTreeFailureHandling(t *testing.T) {
	t.Run("failing service is restarted without touching other layers", func(t *testing.T) {
		logs := &syncBuffer{}
		tree, _ := NewSupervisorTree(testLogger(logs), TreeConfig{
			FailureThreshold: 10,
			FailureBackoff:   10 * time.Millisecond,
			ShutdownTimeout:  time.Second,
		})

		failing := NewMockService("backup-scheduler")
		failing.SetFailCount(2)
		stable := NewMockService("http-server")
		tree.Add(LayerData, failing)
		tree.Add(LayerAPI, stable)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := tree.ServeBackground(ctx)

		waitForStart(t, failing, 3)
		if got := stable.StartCount(); got != 1 {
			t.Errorf("stable service started %d times, want 1", got)
		}

		cancel()
		<-errCh

		if !strings.Contains(logs.String(), "backup-scheduler") {
			t.Errorf("supervisor events not logged through zerolog: %s", logs.String())
		}
	})

	t.Run("ErrDoNotRestart stops a service for good", func(t *testing.T) {
		tree, _ := NewSupervisorTree(testLogger(io.Discard), TreeConfig{
			FailureBackoff:  10 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})

		oneShot := NewMockService("one-shot")
		oneShot.SetError(suture.ErrDoNotRestart)
		tree.Add(LayerMessaging, oneShot)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := tree.ServeBackground(ctx)

		waitForStart(t, oneShot, 1)
		time.Sleep(100 * time.Millisecond)
		if got := oneShot.StartCount(); got != 1 {
			t.Errorf("one-shot service started %d times", got)
		}

		cancel()
		<-errCh
	})
}
