// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package websocket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guesthouse/internal/logging"
)

//nolint:gochecknoinits // quiet hub logs in tests
func init() {
	logging.Init(logging.Config{Level: "info", Format: "json", Output: io.Discard})
}

// runHub starts hub and stops it when the test ends.
func runHub(t *testing.T, hub *Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
}

// queueOnly returns a client with no connection; tests read its send queue.
func queueOnly(hub *Hub, capacity int) *Client {
	return &Client{id: nextClientID.Add(1), hub: hub, send: make(chan Message, capacity)}
}

func join(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	want := hub.GetClientCount() + 1
	hub.Register <- c
	eventually(t, "join", func() bool { return hub.GetClientCount() == want })
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func next(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, open := <-c.send:
		if !open {
			t.Fatal("send queue closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("nothing delivered")
		return Message{}
	}
}

func closed(c *Client) bool {
	for {
		select {
		case _, open := <-c.send:
			if !open {
				return true
			}
		default:
			return false
		}
	}
}

func TestHub_JoinAndLeave(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	runHub(t, hub)

	c := queueOnly(hub, 4)
	join(t, hub, c)

	hub.Unregister <- c
	eventually(t, "leave", func() bool { return hub.GetClientCount() == 0 })
	if !closed(c) {
		t.Error("queue still open after leaving")
	}

	// Leaving twice is harmless.
	hub.Unregister <- c
	join(t, hub, queueOnly(hub, 1))
	if n := hub.GetClientCount(); n != 1 {
		t.Errorf("clients = %d, want 1", n)
	}
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	runHub(t, hub)
	owner, staff := queueOnly(hub, 4), queueOnly(hub, 4)
	join(t, hub, owner)
	join(t, hub, staff)

	hub.Broadcast(MessageTypeBookingCreated, map[string]string{"id": "b-1", "name": "Maria"})

	for _, c := range []*Client{owner, staff} {
		msg := next(t, c)
		if msg.Type != MessageTypeBookingCreated || msg.Timestamp.IsZero() {
			t.Errorf("got %+v", msg)
		}
	}
}

func TestHub_TypedBroadcasts(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	runHub(t, hub)
	c := queueOnly(hub, 4)
	join(t, hub, c)

	hub.BroadcastDeleted(MessageTypeHouseDeleted, "h-1")
	hub.BroadcastAssigned(AssignedData{BookingID: "b-1", HouseID: "h-1", HouseName: "Sea View"})

	if msg := next(t, c); msg.Type != MessageTypeHouseDeleted || msg.Data != (DeletedData{ID: "h-1"}) {
		t.Errorf("deleted = %+v", msg)
	}
	msg := next(t, c)
	if a, ok := msg.Data.(AssignedData); msg.Type != MessageTypeBookingAssigned || !ok || a.HouseName != "Sea View" {
		t.Errorf("assigned = %+v", msg)
	}
}

func TestHub_FanOutOrderAndSlowClients(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	first, slow, last := queueOnly(hub, 4), queueOnly(hub, 1), queueOnly(hub, 4)
	for _, c := range []*Client{last, slow, first} {
		hub.members[c] = struct{}{}
	}

	ordered := hub.byID()
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].id >= ordered[i].id {
			t.Fatalf("order %d before %d", ordered[i-1].id, ordered[i].id)
		}
	}

	hub.fanOut(Message{Type: MessageTypeGalleryUpdated})
	hub.fanOut(Message{Type: MessageTypeGalleryUpdated})

	if n := hub.GetClientCount(); n != 2 {
		t.Fatalf("clients = %d, want 2", n)
	}
	if _, ok := hub.members[slow]; ok {
		t.Error("slow client kept")
	}
	if len(first.send) != 2 || len(last.send) != 2 {
		t.Errorf("queued %d and %d, want 2 each", len(first.send), len(last.send))
	}
	if !closed(slow) {
		t.Error("slow client's queue still open")
	}
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.Broadcast(MessageTypeBookingUpdated, i)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked")
	}
	if len(hub.queue) != broadcastBuffer {
		t.Errorf("queued %d, want %d", len(hub.queue), broadcastBuffer)
	}
}

func TestHub_ConcurrentBroadcasts(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	runHub(t, hub)
	c := queueOnly(hub, broadcastBuffer)
	join(t, hub, c)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hub.Broadcast(MessageTypeRecommendationsUpdated, i)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		next(t, c)
	}
}

func TestHub_StopDisconnectsAndRestarts(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- hub.RunWithContext(ctx) }()

	c := queueOnly(hub, 1)
	join(t, hub, c)
	cancel()

	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if hub.GetClientCount() != 0 || !closed(c) {
		t.Error("clients not disconnected on stop")
	}

	// With the hub stopped, release returns instead of blocking.
	released := make(chan struct{})
	go func() {
		hub.release(c)
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("release blocked on a stopped hub")
	}

	// A supervisor restart serves new clients again.
	runHub(t, hub)
	again := queueOnly(hub, 1)
	join(t, hub, again)
	hub.release(again)
	eventually(t, "leave after restart", func() bool { return hub.GetClientCount() == 0 })
}

func TestStopReason(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()

	if got := stopReason(canceled); got != "canceled" {
		t.Errorf("canceled ctx = %q", got)
	}
	if got := stopReason(expired); got != "deadline" {
		t.Errorf("expired ctx = %q", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	t.Parallel()

	raw, err := MarshalMessage(Message{
		Type:      MessageTypeBookingDeleted,
		Data:      DeletedData{ID: "b-9"},
		Timestamp: time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("MarshalMessage: %v", err)
	}

	var frame struct {
		Type      string            `json:"type"`
		Data      map[string]string `json:"data"`
		Timestamp string            `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if frame.Type != MessageTypeBookingDeleted || frame.Data["id"] != "b-9" || frame.Timestamp != "2026-07-01T10:00:00Z" {
		t.Errorf("frame = %+v", frame)
	}
}

func TestHub_Join(t *testing.T) {
	t.Parallel()

	t.Run("running hub accepts", func(t *testing.T) {
		t.Parallel()
		hub := NewHub()
		runHub(t, hub)
		if !hub.Join(context.Background(), queueOnly(hub, 1)) {
			t.Fatal("Join = false on a running hub")
		}
		eventually(t, "join", func() bool { return hub.GetClientCount() == 1 })
	})

	t.Run("stopped hub refuses", func(t *testing.T) {
		t.Parallel()
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)
		go func() { result <- hub.RunWithContext(ctx) }()
		join(t, hub, queueOnly(hub, 1))
		cancel()
		<-result

		joined := make(chan bool, 1)
		go func() { joined <- hub.Join(context.Background(), queueOnly(hub, 1)) }()
		select {
		case ok := <-joined:
			if ok {
				t.Error("Join = true on a stopped hub")
			}
		case <-time.After(time.Second):
			t.Fatal("Join blocked on a stopped hub")
		}
	})

	t.Run("never started hub gives up with ctx", func(t *testing.T) {
		t.Parallel()
		hub := NewHub()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if hub.Join(ctx, queueOnly(hub, 1)) {
			t.Error("Join = true with no hub running")
		}
	})
}
