// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"errors"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guesthouse/internal/backup"
	"github.com/tomtom215/guesthouse/internal/database"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/storage"
	"github.com/tomtom215/guesthouse/internal/validation"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Count     *int      `json:"count,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeCapacityExceeded   = "CAPACITY_EXCEEDED"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedMedia   = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// respondJSON writes v as JSON with an ETag. GET requests carrying a
// matching If-None-Match get 304 without a body.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := generateETag(data)
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")

	if status == http.StatusOK && r.Method == http.MethodGet && r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag returns a quoted FNV-1a hash of data.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

func newMeta(r *http.Request) *APIMeta {
	return &APIMeta{
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}
}

// respondData writes a 200 success envelope.
func respondData(w http.ResponseWriter, r *http.Request, data interface{}) {
	respondJSON(w, r, http.StatusOK, &APIResponse{Success: true, Data: data, Meta: newMeta(r)})
}

// respondList writes a success envelope with the item count in meta.
func respondList[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	meta := newMeta(r)
	n := len(items)
	meta.Count = &n
	respondJSON(w, r, http.StatusOK, &APIResponse{Success: true, Data: items, Meta: meta})
}

// respondCreated writes a 201 success envelope.
func respondCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	respondJSON(w, r, http.StatusCreated, &APIResponse{Success: true, Data: data, Meta: newMeta(r)})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	requestID := logging.RequestIDFromContext(r.Context())
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, status, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: &APIMeta{RequestID: requestID, Timestamp: time.Now().UTC()},
	})
}

// respondValidation writes a 400 for a failed struct or field validation.
func respondValidation(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	var details interface{}
	if len(apiErr.Details) > 0 {
		details = apiErr.Details
	}
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, details)
}

// respondStoreError maps document store, object storage and backup errors to
// HTTP statuses. Unknown errors are logged and answered with 500.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(w, r, verr)
	case errors.Is(err, database.ErrNotFound), errors.Is(err, storage.ErrObjectNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, what+" not found", nil)
	case errors.Is(err, database.ErrCapacityExceeded):
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeCapacityExceeded, err.Error(), nil)
	case errors.Is(err, database.ErrBookingAssigned),
		errors.Is(err, database.ErrDateConflict),
		errors.Is(err, database.ErrHouseHasGuests),
		errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, backup.ErrBackupInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, err.Error(), nil)
	case errors.Is(err, storage.ErrInvalidKey):
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
	case errors.Is(err, storage.ErrUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Object storage is unavailable", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("resource", what).Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", nil)
	}
}

// decodeJSON reads a size-limited JSON body into v and validates it.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := decodeStrict(r.Body, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large", nil)
			return false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", nil)
		return false
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		respondValidation(w, r, verr)
		return false
	}
	return true
}

// decodeStrict decodes one JSON value from src and rejects unknown fields.
func decodeStrict(src io.Reader, v interface{}) error {
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
