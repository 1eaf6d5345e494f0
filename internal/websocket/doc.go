// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package websocket pushes live updates to open admin dashboards.

The package uses a hub-and-spoke layout on top of gorilla/websocket:

  - Hub: owns the client set and fans messages out
  - Client: one connection with a read goroutine and a write goroutine
  - Message: {type, data, timestamp} envelope

Message Types:

  - booking_created, booking_updated, booking_deleted
  - booking_assigned: a booking placed in a house (AssignedData)
  - house_updated, house_deleted
  - gallery_updated, recommendations_updated
  - ping / pong: application-level keepalive initiated by the browser

Usage:

	hub := websocket.NewHub()
	tree.Add(supervisor.LayerMessaging, services.NewWebSocketHubService(hub))

	// after a successful write
	hub.Broadcast(websocket.MessageTypeBookingCreated, booking)
	hub.BroadcastDeleted(websocket.MessageTypeBookingDeleted, id)

Delivery:

Broadcast never blocks the caller. Messages are delivered to clients in
ascending client id order so fan-out is reproducible in tests. A client whose
send queue is full is disconnected rather than slowing the hub down; the
dashboard reconnects and reloads.

Timeouts:

  - writeWait: 10 seconds per message
  - pongWait: 60 seconds without a pong closes the connection
  - pingPeriod: 54 seconds
*/
package websocket
