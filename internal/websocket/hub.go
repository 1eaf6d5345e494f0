// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
)

// broadcastBuffer is the capacity of the hub queue and of each client's
// send queue.
const broadcastBuffer = 256

// Hub owns the set of connected dashboards. Only the goroutine running
// RunWithContext changes membership; mu guards reads from elsewhere.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	queue chan Message

	mu      sync.RWMutex
	members map[*Client]struct{}
	done    chan struct{} // closed when the current run ends
}

// NewHub returns a hub that does nothing until RunWithContext is called.
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		queue:      make(chan Message, broadcastBuffer),
		members:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// RunWithContext serves the hub until ctx ends, then disconnects every
// client and returns ctx.Err(). The supervisor may call it again after a
// failure.
func (h *Hub) RunWithContext(ctx context.Context) error {
	done := h.begin()
	defer close(done)

	for {
		// Pending joins and leaves are applied before the next message so a
		// message never reaches a client that already left.
		if h.settleMembership() {
			continue
		}

		select {
		case <-ctx.Done():
			closed := h.disconnectAll()
			logging.Info().
				Str("component", "websocket-hub").
				Str("reason", stopReason(ctx)).
				Int("clients_closed", closed).
				Msg("websocket hub stopped")
			return ctx.Err()
		case c := <-h.Register:
			h.join(c)
		case c := <-h.Unregister:
			h.leave(c)
		case msg := <-h.queue:
			h.fanOut(msg)
		}
	}
}

// begin replaces a done channel left closed by an earlier run.
func (h *Hub) begin() chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		h.done = make(chan struct{})
	default:
	}
	return h.done
}

func (h *Hub) settleMembership() bool {
	select {
	case c := <-h.Register:
		h.join(c)
	case c := <-h.Unregister:
		h.leave(c)
	default:
		return false
	}
	return true
}

func stopReason(ctx context.Context) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "deadline"
	}
	return "canceled"
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	h.members[c] = struct{}{}
	n := len(h.members)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Info().Uint64("client_id", c.id).Str("username", c.username).Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	_, known := h.members[c]
	if known {
		h.drop(c)
	}
	n := len(h.members)
	h.mu.Unlock()

	if known {
		logging.Info().Uint64("client_id", c.id).Int("total_clients", n).Msg("websocket client disconnected")
	}
}

// drop removes c and closes its queue, which makes its writer send a close
// frame. h.mu must be held.
func (h *Hub) drop(c *Client) {
	delete(h.members, c)
	close(c.send)
	metrics.WSConnections.Dec()
}

// byID returns the members in ascending id order. h.mu must be held.
func (h *Hub) byID() []*Client {
	out := make([]*Client, 0, len(h.members))
	for c := range h.members {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// fanOut queues msg on every member in id order. A member whose queue is
// full is dropped.
func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.byID() {
		select {
		case c.send <- msg:
			metrics.WSMessagesSent.Inc()
		default:
			h.drop(c)
			metrics.WSErrors.WithLabelValues("slow_client").Inc()
			logging.Warn().Uint64("client_id", c.id).Str("type", msg.Type).Msg("websocket client too slow, disconnected")
		}
	}
}

func (h *Hub) disconnectAll() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.byID()
	for _, c := range clients {
		h.drop(c)
	}
	return len(clients)
}

// release hands c back to the hub. It gives up once the current run has
// ended, since nothing reads Unregister then.
func (h *Hub) release(c *Client) {
	h.mu.RLock()
	done := h.done
	h.mu.RUnlock()

	select {
	case h.Unregister <- c:
	case <-done:
	}
}

// Join registers c with the running hub. It reports false when the current
// run has ended or ctx is done before the hub accepts c.
func (h *Hub) Join(ctx context.Context, c *Client) bool {
	h.mu.RLock()
	done := h.done
	h.mu.RUnlock()

	select {
	case h.Register <- c:
		return true
	case <-done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Broadcast queues a message for every client without blocking. When the
// queue is full the message is dropped.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	select {
	case h.queue <- newMessage(msgType, data):
	default:
		metrics.WSErrors.WithLabelValues("queue_full").Inc()
		logging.Warn().Str("type", msgType).Msg("broadcast queue full, dropping message")
	}
}

// BroadcastDeleted announces the removal of a document.
func (h *Hub) BroadcastDeleted(msgType, id string) {
	h.Broadcast(msgType, DeletedData{ID: id})
}

// BroadcastAssigned announces a booking placed in a house.
func (h *Hub) BroadcastAssigned(data AssignedData) {
	h.Broadcast(MessageTypeBookingAssigned, data)
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.members)
}
