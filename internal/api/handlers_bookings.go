// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"errors"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/database"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
	"github.com/tomtom215/guesthouse/internal/models"
	"github.com/tomtom215/guesthouse/internal/validation"
	"github.com/tomtom215/guesthouse/internal/websocket"
)

// ListBookings lists bookings filtered by the optional status and house_id
// query parameters.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.BookingFilter{
		Status:  models.BookingStatus(q.Get("status")),
		HouseID: q.Get("house_id"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondValidation(w, r, validation.NewFieldError("status", "oneof", "status must be pending or assigned"))
		return
	}

	bookings, err := h.db.ListBookings(r.Context(), filter)
	if err != nil {
		respondStoreError(w, r, err, "bookings")
		return
	}
	respondList(w, r, bookings)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.db.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "booking")
		return
	}
	respondData(w, r, booking)
}

// UpdateBooking edits a pending booking. Assigned bookings are frozen.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	booking, err := h.db.UpdateBooking(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondStoreError(w, r, err, "booking")
		return
	}
	h.recordChange(r, audit.EventTypeBookingUpdated, audit.Target{Type: "booking", ID: booking.ID}, "Booking updated", nil)
	h.broadcast(websocket.MessageTypeBookingUpdated, booking)
	respondData(w, r, booking)
}

// DeleteBooking removes a booking, its guest entry and its attachment.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	booking, err := h.db.DeleteBooking(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "booking")
		return
	}
	h.deleteObject(ctx, booking.AttachmentKey)
	metrics.BookingsDeleted.Inc()

	logging.Ctx(ctx).Info().
		Str("booking_id", booking.ID).
		Str("house_id", booking.HouseID).
		Str("status", string(booking.Status)).
		Msg("Booking deleted")

	h.recordChange(r, audit.EventTypeBookingDeleted, audit.Target{Type: "booking", ID: booking.ID}, "Booking deleted",
		map[string]interface{}{"status": booking.Status, "house_id": booking.HouseID, "had_attachment": booking.AttachmentKey != ""})
	h.broadcastDeleted(websocket.MessageTypeBookingDeleted, booking.ID)
	respondData(w, r, map[string]string{"id": booking.ID})
}

// AssignBooking places a pending booking into a house.
func (h *Handler) AssignBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bookingID := chi.URLParam(r, "id")
	booking, house, err := h.db.AssignBooking(ctx, bookingID, req.HouseID)
	metrics.BookingAssignments.WithLabelValues(assignResult(err)).Inc()
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("booking_id", bookingID).
			Str("house_id", req.HouseID).
			Msg("Booking assignment rejected")
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)
			return
		}
		respondStoreError(w, r, err, "booking")
		return
	}

	logging.Ctx(ctx).Info().
		Str("booking_id", booking.ID).
		Str("house_id", house.ID).
		Str("check_in", booking.CheckIn).
		Str("check_out", booking.CheckOut).
		Msg("Booking assigned")

	h.recordChange(r, audit.EventTypeBookingAssigned, audit.Target{Type: "booking", ID: booking.ID}, "Booking assigned to "+house.Name,
		map[string]interface{}{"house_id": house.ID, "check_in": booking.CheckIn, "check_out": booking.CheckOut})
	h.statsCache.Clear()
	if h.hub != nil {
		h.hub.BroadcastAssigned(websocket.AssignedData{
			BookingID: booking.ID,
			HouseID:   house.ID,
			HouseName: house.Name,
			CheckIn:   booking.CheckIn,
			CheckOut:  booking.CheckOut,
		})
	}
	respondData(w, r, booking)
}

func assignResult(err error) string {
	switch {
	case err == nil:
		return "assigned"
	case errors.Is(err, database.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, database.ErrDateConflict):
		return "date_conflict"
	case errors.Is(err, database.ErrBookingAssigned), errors.Is(err, database.ErrConcurrentModification):
		return "conflict"
	default:
		return "error"
	}
}

// BookingAttachment streams the booking's uploaded document as a download.
func (h *Handler) BookingAttachment(w http.ResponseWriter, r *http.Request) {
	booking, err := h.db.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "booking")
		return
	}
	if booking.AttachmentKey == "" {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "booking has no attachment", nil)
		return
	}
	h.recordChange(r, audit.EventTypeAttachmentViewed, audit.Target{Type: "booking", ID: booking.ID}, "Booking attachment downloaded", nil)
	w.Header().Set("Cache-Control", "no-store")
	h.streamObject(w, r, booking.AttachmentKey, "booking-"+booking.ID+path.Ext(booking.AttachmentKey))
}

// ListGuests lists the guests of every house.
func (h *Handler) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.db.ListGuests(r.Context(), "")
	if err != nil {
		respondStoreError(w, r, err, "guests")
		return
	}
	respondList(w, r, guests)
}

// ListHouseGuests lists the guests of one house.
func (h *Handler) ListHouseGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.db.ListGuests(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "house")
		return
	}
	respondList(w, r, guests)
}

// UpdateGuest patches notes, phone or the checked-in flag of a guest entry.
func (h *Handler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	var patch models.GuestPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	houseID := chi.URLParam(r, "id")
	entry, err := h.db.UpdateGuest(r.Context(), houseID, chi.URLParam(r, "bookingID"), &patch)
	if err != nil {
		respondStoreError(w, r, err, "guest")
		return
	}
	h.recordChange(r, audit.EventTypeGuestUpdated, audit.Target{Type: "booking", ID: entry.BookingID}, "Guest entry updated",
		map[string]interface{}{"house_id": houseID})
	h.broadcast(websocket.MessageTypeHouseUpdated, models.GuestView{HouseID: houseID, GuestEntry: *entry})
	respondData(w, r, entry)
}
