// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package audit

import (
	"context"
	"net"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guesthouse/internal/logging"
)

// newEvent fills the fields every entry shares.
func newEvent(ctx context.Context, t EventType, outcome Outcome, actor Actor, source Source) *Event {
	severity := SeverityInfo
	if outcome == OutcomeFailure {
		severity = SeverityWarning
	}
	return &Event{
		Type:      t,
		Severity:  severity,
		Outcome:   outcome,
		Actor:     actor,
		Source:    source,
		RequestID: logging.RequestIDFromContext(ctx),
	}
}

// LogLogin records a successful login.
func (l *Logger) LogLogin(ctx context.Context, actor Actor, source Source) {
	e := newEvent(ctx, EventTypeLogin, OutcomeSuccess, actor, source)
	e.Description = "User logged in"
	l.Log(e)
}

// LogLoginFailure records a rejected login. username is what the client
// sent and need not exist.
func (l *Logger) LogLoginFailure(ctx context.Context, username string, source Source, reason string) {
	e := newEvent(ctx, EventTypeLoginFailure, OutcomeFailure, Actor{Type: ActorUser, Username: username}, source)
	e.Description = "Login failed: " + reason
	e.Metadata = rawJSON(map[string]string{"reason": reason})
	l.Log(e)
}

// LogLogout records a logout.
func (l *Logger) LogLogout(ctx context.Context, actor Actor, source Source) {
	e := newEvent(ctx, EventTypeLogout, OutcomeSuccess, actor, source)
	e.Description = "User logged out"
	l.Log(e)
}

// LogAccessDenied records a request the role policy refused. The target is
// the request path.
func (l *Logger) LogAccessDenied(ctx context.Context, actor Actor, source Source, path, action string) {
	e := newEvent(ctx, EventTypeAccessDenied, OutcomeFailure, actor, source)
	e.Target = &Target{Type: "resource", ID: path}
	e.Description = "Access denied for " + action + " on " + path
	e.Metadata = rawJSON(map[string]string{"requested_action": action})
	l.Log(e)
}

// LogChange records a successful create, update or delete of target.
func (l *Logger) LogChange(ctx context.Context, t EventType, actor Actor, source Source, target Target, description string, metadata map[string]interface{}) {
	e := newEvent(ctx, t, OutcomeSuccess, actor, source)
	e.Target = &target
	e.Description = description
	if len(metadata) > 0 {
		e.Metadata = rawJSON(metadata)
	}
	l.Log(e)
}

// rawJSON encodes v, falling back to an empty object.
func rawJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}

// SourceFromRequest reads the client address and user agent. chi's RealIP
// middleware has already resolved proxies into RemoteAddr.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return Source{IPAddress: ip, UserAgent: logging.SanitizeLogValue(r.UserAgent())}
}

// UserActor is a signed-in account.
func UserActor(username, role string) Actor {
	return Actor{Type: ActorUser, Username: username, Role: role}
}

// PublicActor is an anonymous visitor of the public site.
func PublicActor() Actor {
	return Actor{Type: ActorPublic}
}

// SystemActor is a scheduled job.
func SystemActor() Actor {
	return Actor{Type: ActorSystem, Username: "guesthouse"}
}
