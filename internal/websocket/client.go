// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // browsers only send pings
)

var nextClientID atomic.Uint64

// Client is one dashboard connection. The hub writes to send; the client's
// writer goroutine is the only one that writes to conn.
type Client struct {
	id       uint64
	hub      *Hub
	conn     *websocket.Conn
	send     chan Message
	username string
}

// NewClient wraps conn. username is only used in logs.
func NewClient(hub *Hub, conn *websocket.Conn, username string) *Client {
	return &Client{
		id:       nextClientID.Add(1),
		hub:      hub,
		conn:     conn,
		send:     make(chan Message, broadcastBuffer),
		username: username,
	}
}

// ID returns the client's id. Ids increase with each NewClient call.
func (c *Client) ID() uint64 {
	return c.id
}

// Start runs the reader and writer goroutines. The client must already be
// registered with the hub.
func (c *Client) Start() {
	go c.writeLoop()
	go c.readLoop()
}

// readLoop answers pings until the connection fails, then leaves the hub.
func (c *Client) readLoop() {
	defer func() {
		c.hub.release(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	if err := extend(""); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(extend)

	for {
		var in Message
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				logging.Warn().Err(err).Str("username", c.username).Msg("unexpected websocket close error")
			}
			return
		}
		if in.Type != MessageTypePing {
			continue
		}
		// A full queue means the hub is about to drop this client anyway.
		select {
		case c.send <- newMessage(MessageTypePong, nil):
		default:
		}
	}
}

// writeLoop drains send and keeps the connection alive with control pings.
// It sends a close frame once the hub closes send.
func (c *Client) writeLoop() {
	keepalive := time.NewTicker(pingPeriod)
	defer func() {
		keepalive.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, open := <-c.send:
			if !open {
				_ = c.write(func() error { return c.conn.WriteMessage(websocket.CloseMessage, []byte{}) })
				return
			}
			if err := c.write(func() error { return c.conn.WriteJSON(msg) }); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				logging.Debug().Err(err).Str("username", c.username).Str("type", msg.Type).Msg("failed to write websocket message")
				return
			}
		case <-keepalive.C:
			if err := c.write(func() error { return c.conn.WriteMessage(websocket.PingMessage, nil) }); err != nil {
				return
			}
		}
	}
}

// write runs fn under the write deadline.
func (c *Client) write(fn func() error) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return fn()
}
