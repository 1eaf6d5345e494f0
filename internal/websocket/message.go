// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package websocket

import (
	"time"

	"github.com/goccy/go-json"
)

// Message types pushed to dashboards. ping and pong are the only types a
// browser sends or receives in reply.
const (
	MessageTypeBookingCreated         = "booking_created"
	MessageTypeBookingUpdated         = "booking_updated"
	MessageTypeBookingAssigned        = "booking_assigned"
	MessageTypeBookingDeleted         = "booking_deleted"
	MessageTypeHouseUpdated           = "house_updated"
	MessageTypeHouseDeleted           = "house_deleted"
	MessageTypeGalleryUpdated         = "gallery_updated"
	MessageTypeRecommendationsUpdated = "recommendations_updated"
	MessageTypePing                   = "ping"
	MessageTypePong                   = "pong"
)

// Message is the envelope of every frame.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func newMessage(msgType string, data interface{}) Message {
	return Message{Type: msgType, Data: data, Timestamp: time.Now().UTC()}
}

// DeletedData is the payload of *_deleted messages.
type DeletedData struct {
	ID string `json:"id"`
}

// AssignedData is the payload of booking_assigned messages.
type AssignedData struct {
	BookingID string `json:"booking_id"`
	HouseID   string `json:"house_id"`
	HouseName string `json:"house_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

// MarshalMessage encodes msg as a JSON frame.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
