// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/validation"
)

// ListActivity returns activity log entries, newest first.
//
// Query parameters: type (comma-separated event types), username,
// target_type, target_id, since and until (RFC 3339), limit (max 1000).
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Activity log is disabled", nil)
		return
	}

	filter, verr := parseActivityFilter(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		respondStoreError(w, r, err, "activity")
		return
	}
	respondList(w, r, events)
}

func parseActivityFilter(r *http.Request) (audit.QueryFilter, *validation.RequestValidationError) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Username:   q.Get("username"),
		TargetType: q.Get("target_type"),
		TargetID:   q.Get("target_id"),
		Limit:      getIntParam(r, "limit", audit.DefaultQueryLimit),
	}

	if raw := q.Get("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			et := audit.EventType(strings.TrimSpace(t))
			if !audit.ValidEventType(et) {
				return filter, validation.NewFieldError("type", "oneof", "unknown event type "+string(et))
			}
			filter.Types = append(filter.Types, et)
		}
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"since", &filter.Since}, {"until", &filter.Until}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, validation.NewFieldError(p.name, "datetime", p.name+" must be an RFC 3339 timestamp")
		}
		*p.dst = &ts
	}

	if filter.Limit < 1 || filter.Limit > audit.MaxQueryLimit {
		return filter, validation.NewFieldError("limit", "range", "limit must be between 1 and 1000")
	}
	return filter, nil
}
