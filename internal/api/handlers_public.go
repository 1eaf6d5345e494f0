// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/database"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
	"github.com/tomtom215/guesthouse/internal/models"
	"github.com/tomtom215/guesthouse/internal/storage"
	"github.com/tomtom215/guesthouse/internal/validation"
	"github.com/tomtom215/guesthouse/internal/websocket"
)

// BookingReceipt is what the public booking form gets back. It deliberately
// echoes no contact details.
type BookingReceipt struct {
	ID            string               `json:"id"`
	Status        models.BookingStatus `json:"status"`
	CheckIn       string               `json:"check_in"`
	CheckOut      string               `json:"check_out"`
	NumGuests     int                  `json:"num_guests"`
	HasAttachment bool                 `json:"has_attachment"`
}

// PublicHouses lists all houses without guest data.
func (h *Handler) PublicHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.db.ListHouses(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "houses")
		return
	}
	public := make([]models.House, len(houses))
	for i := range houses {
		public[i] = houses[i].Public()
	}
	respondList(w, r, public)
}

// PublicHouse returns one house without guest data.
func (h *Handler) PublicHouse(w http.ResponseWriter, r *http.Request) {
	house, err := h.db.GetHouse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "house")
		return
	}
	respondData(w, r, house.Public())
}

// HouseAvailability returns the booked ranges of a house from the "from"
// query date, today by default.
func (h *Handler) HouseAvailability(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if from == "" {
		from = models.FormatDate(models.Today(h.now()))
	} else if _, err := models.ParseDate(from); err != nil {
		respondValidation(w, r, validation.NewFieldError("from", "datetime", "from must be a date in YYYY-MM-DD format"))
		return
	}

	ranges, err := h.db.Availability(r.Context(), chi.URLParam(r, "id"), from)
	if err != nil {
		respondStoreError(w, r, err, "house")
		return
	}
	respondList(w, r, ranges)
}

// PublicGallery lists gallery items in display order.
func (h *Handler) PublicGallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.ListGallery(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "gallery")
		return
	}
	respondList(w, r, items)
}

// PublicRecommendations lists recommendations, optionally for one category.
func (h *Handler) PublicRecommendations(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !models.ValidCategory(category) {
		respondValidation(w, r, validation.NewFieldError("category", "oneof", "category is not a known recommendation category"))
		return
	}
	recs, err := h.db.ListRecommendations(r.Context(), category)
	if err != nil {
		respondStoreError(w, r, err, "recommendations")
		return
	}
	respondList(w, r, recs)
}

// CreateBooking accepts a booking request as JSON, or as multipart form data
// with the JSON in the "booking" field and an optional "attachment" file.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.BookingRequest
	var att *upload
	if isMultipart(r) {
		if !parseMultipart(w, r, h.cfg.Storage.MaxAttachmentSize) {
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		raw := r.FormValue("booking")
		if raw == "" {
			respondValidation(w, r, validation.NewFieldError("booking", "required", "booking is required"))
			return
		}
		if err := decodeStrict(strings.NewReader(raw), &req); err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid booking JSON", nil)
			return
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			respondValidation(w, r, verr)
			return
		}

		var ok bool
		att, ok = receiveUpload(w, r, "attachment", h.cfg.Storage.MaxAttachmentSize, false, storage.AttachmentTypes)
		if !ok {
			return
		}
		if att != nil {
			defer att.Close()
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if req.CheckIn < models.FormatDate(models.Today(h.now())) {
		respondValidation(w, r, validation.NewFieldError("check_in", "future", "check_in must not be in the past"))
		return
	}

	var stored *database.NewBookingAttachment
	if att != nil {
		key, err := h.storeUpload(ctx, storage.PrefixAttachments, att)
		if err != nil {
			respondStoreError(w, r, err, "attachment")
			return
		}
		stored = &database.NewBookingAttachment{Key: key, ContentType: att.contentType}
	}

	booking, err := h.db.CreateBooking(ctx, &req, stored)
	if err != nil {
		if stored != nil {
			h.deleteObject(ctx, stored.Key)
		}
		respondStoreError(w, r, err, "booking")
		return
	}

	hasAttachment := "no"
	if stored != nil {
		hasAttachment = "yes"
	}
	metrics.BookingsCreated.WithLabelValues(hasAttachment).Inc()

	logging.Ctx(ctx).Info().
		Str("booking_id", booking.ID).
		Str("guest", logging.RedactName(booking.Name)).
		Str("email", logging.RedactEmail(booking.Email)).
		Str("check_in", booking.CheckIn).
		Str("check_out", booking.CheckOut).
		Int("num_guests", booking.NumGuests).
		Str("attachment", hasAttachment).
		Msg("Booking received")

	h.recordChange(r, audit.EventTypeBookingCreated, audit.Target{Type: "booking", ID: booking.ID}, "Booking request received",
		map[string]interface{}{"attachment": stored != nil})
	h.broadcast(websocket.MessageTypeBookingCreated, booking)

	respondCreated(w, r, BookingReceipt{
		ID:            booking.ID,
		Status:        booking.Status,
		CheckIn:       booking.CheckIn,
		CheckOut:      booking.CheckOut,
		NumGuests:     booking.NumGuests,
		HasAttachment: stored != nil,
	})
}

// Media streams public objects: gallery files and house photos.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if !storage.IsPublicKey(key) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "media not found", nil)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	h.streamObject(w, r, key, "")
}

// streamObject copies a stored object to the response. A non-empty filename
// is offered as a download.
func (h *Handler) streamObject(w http.ResponseWriter, r *http.Request, key, filename string) {
	rc, info, err := h.store.Get(r.Context(), key)
	if err != nil {
		respondStoreError(w, r, err, "media")
		return
	}
	defer func() { _ = rc.Close() }()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if info.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if !info.ModTime.IsZero() {
		w.Header().Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	}
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Str("key", key).Msg("Media stream interrupted")
	}
}
