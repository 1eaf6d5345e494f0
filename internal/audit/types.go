// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes activity log entries.
type EventType string

const (
	// Authentication events
	EventTypeLogin        EventType = "auth.login"
	EventTypeLoginFailure EventType = "auth.login_failed"
	EventTypeLogout       EventType = "auth.logout"

	// Authorization events
	EventTypeAccessDenied EventType = "authz.denied"

	// Booking events
	EventTypeBookingCreated    EventType = "booking.created"
	EventTypeBookingUpdated    EventType = "booking.updated"
	EventTypeBookingAssigned   EventType = "booking.assigned"
	EventTypeBookingDeleted    EventType = "booking.deleted"
	EventTypeAttachmentViewed  EventType = "booking.attachment_viewed"
	EventTypeGuestUpdated      EventType = "guest.updated"
	EventTypeHouseCreated      EventType = "house.created"
	EventTypeHouseUpdated      EventType = "house.updated"
	EventTypeHouseDeleted      EventType = "house.deleted"
	EventTypeGalleryChanged    EventType = "gallery.changed"
	EventTypeRecommendationSet EventType = "recommendation.changed"

	// Data events
	EventTypeBackupCreated EventType = "data.backup"
)

// ValidEventType reports whether t is a known event type.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTypeLogin, EventTypeLoginFailure, EventTypeLogout, EventTypeAccessDenied,
		EventTypeBookingCreated, EventTypeBookingUpdated, EventTypeBookingAssigned,
		EventTypeBookingDeleted, EventTypeAttachmentViewed, EventTypeGuestUpdated,
		EventTypeHouseCreated, EventTypeHouseUpdated, EventTypeHouseDeleted,
		EventTypeGalleryChanged, EventTypeRecommendationSet, EventTypeBackupCreated:
		return true
	}
	return false
}

// Severity indicates how much attention an entry deserves.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Actor types
const (
	ActorUser   = "user"
	ActorPublic = "public"
	ActorSystem = "system"
)

// Event is one activity log entry.
type Event struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Type        EventType       `json:"type"`
	Severity    Severity        `json:"severity"`
	Outcome     Outcome         `json:"outcome"`
	Actor       Actor           `json:"actor"`
	Target      *Target         `json:"target,omitempty"`
	Source      Source          `json:"source"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
}

// Actor is who performed an action. Public booking requests have no
// account, so their actor is ActorPublic with an empty name.
type Actor struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Target is the object of an action.
type Target struct {
	// Type is house, booking, gallery_item, recommendation, backup or resource.
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Source is where a request came from.
type Source struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store persists activity log entries.
type Store interface {
	Save(ctx context.Context, event *Event) error

	// Query returns matching events, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Delete removes events older than the cutoff and returns how many.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter narrows an activity log query. Zero fields match everything.
type QueryFilter struct {
	Types      []EventType
	Username   string
	TargetType string
	TargetID   string
	Since      *time.Time
	Until      *time.Time
	Limit      int
}

const (
	// DefaultQueryLimit applies when a filter has no limit.
	DefaultQueryLimit = 100
	// MaxQueryLimit caps a single query.
	MaxQueryLimit = 1000
)

// Matches reports whether event satisfies the filter.
func (f *QueryFilter) Matches(event *Event) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if event.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Username != "" && event.Actor.Username != f.Username {
		return false
	}
	if f.TargetType != "" && (event.Target == nil || event.Target.Type != f.TargetType) {
		return false
	}
	if f.TargetID != "" && (event.Target == nil || event.Target.ID != f.TargetID) {
		return false
	}
	if f.Since != nil && event.Timestamp.Before(*f.Since) {
		return false
	}
	if f.Until != nil && event.Timestamp.After(*f.Until) {
		return false
	}
	return true
}

// limit returns the effective result limit.
func (f *QueryFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultQueryLimit
	case f.Limit > MaxQueryLimit:
		return MaxQueryLimit
	default:
		return f.Limit
	}
}
