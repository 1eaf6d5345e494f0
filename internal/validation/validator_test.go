// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type stayRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Guests   int    `json:"num_guests" validate:"min=1,max=10"`
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02,date_after=CheckIn"`
	Website  string `json:"website" validate:"omitempty,url"`
}

func validStay() stayRequest {
	return stayRequest{
		Name:     "Maria Rossi",
		Email:    "maria@example.com",
		Guests:   2,
		CheckIn:  "2026-07-01",
		CheckOut: "2026-07-05",
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*stayRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"valid", func(*stayRequest) {}, "", "", ""},
		{"missing name", func(r *stayRequest) { r.Name = "" }, "name", "required", "name is required"},
		{"blank name", func(r *stayRequest) { r.Name = "   " }, "name", "notblank", "name must not be blank"},
		{"long name", func(r *stayRequest) { r.Name = strings.Repeat("x", 21) }, "name", "max", "name must be at most 20 characters"},
		{"bad email", func(r *stayRequest) { r.Email = "nope" }, "email", "email", "email must be a valid email address"},
		{"zero guests", func(r *stayRequest) { r.Guests = 0 }, "num_guests", "min", "num_guests must be at least 1"},
		{"bad date", func(r *stayRequest) { r.CheckIn = "01/07/2026" }, "check_in", "datetime", "check_in must be a date in YYYY-MM-DD format"},
		{"same day checkout", func(r *stayRequest) { r.CheckOut = r.CheckIn }, "check_out", "date_after", "check_out must be after check_in"},
		{"checkout before checkin", func(r *stayRequest) { r.CheckOut = "2026-06-30" }, "check_out", "date_after", ""},
		{"bad url", func(r *stayRequest) { r.Website = "not a url" }, "website", "url", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validStay()
			tt.mutate(&req)

			verr := ValidateStruct(&req)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			fields := verr.Fields()
			if len(fields) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(fields), verr)
			}
			if fields[0].Field != tt.wantField || fields[0].Tag != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", fields[0].Field, fields[0].Tag, tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && fields[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", fields[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	req := validStay()
	req.Name = ""
	req.Email = "bad"

	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected error")
	}
	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details = %#v", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "name: name is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}

	single := NewFieldError("attachment", "mimetype", "attachment must be an image or PDF").ToAPIError()
	if single.Details["field"] != "attachment" {
		t.Errorf("single Details = %#v", single.Details)
	}
}

func TestToSnake(t *testing.T) {
	t.Parallel()
	if got := toSnake("CheckIn"); got != "check_in" {
		t.Errorf("toSnake = %q", got)
	}
}
