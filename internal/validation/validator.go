// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for booking-specific rules, and converts failures into the API's
// VALIDATION_ERROR shape.
//
// Field names in errors are taken from the json tag, so clients see the same
// names they sent:
//
//	type BookingRequest struct {
//	    CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
//	    CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02,date_after=CheckIn"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule on one field. Field is the json name.
type FieldError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

// RequestValidationError collects the failed rules of one request.
type RequestValidationError struct {
	fields []FieldError
}

// Fields returns the individual failures in struct order.
func (ve *RequestValidationError) Fields() []FieldError {
	return ve.fields
}

func (ve *RequestValidationError) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.fields))
	for i, f := range ve.fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// NewFieldError builds a single-field validation error for checks that cannot
// be expressed as struct tags (multipart fields, query parameters).
func NewFieldError(field, tag, message string) *RequestValidationError {
	return &RequestValidationError{fields: []FieldError{{Field: field, Tag: tag, Message: message}}}
}

// APIError is the VALIDATION_ERROR payload. It lives here so the api package
// can depend on validation and not the other way round.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts the failures to an API error. A single failure keeps
// its message and puts field, tag and value in the details; several
// failures are listed under details.fields.
func (ve *RequestValidationError) ToAPIError() *APIError {
	apiErr := &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}

	switch len(ve.fields) {
	case 0:
	case 1:
		f := ve.fields[0]
		apiErr.Message = f.Message
		apiErr.Details = map[string]interface{}{"field": f.Field, "tag": f.Tag, "value": f.Value}
	default:
		fields := make([]map[string]interface{}, len(ve.fields))
		msgs := make([]string, len(ve.fields))
		for i, f := range ve.fields {
			fields[i] = map[string]interface{}{"field": f.Field, "tag": f.Tag, "message": f.Message}
			msgs[i] = f.Field + ": " + f.Message
		}
		apiErr.Message = strings.Join(msgs, "; ")
		apiErr.Details = map[string]interface{}{"fields": fields}
	}
	return apiErr
}

// GetValidator returns the singleton validator instance.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails for empty tags or nil functions.
		_ = validate.RegisterValidation("date_after", validateDateAfter)
		_ = validate.RegisterValidation("notblank", validateNotBlank)
	})

	return validate
}

// validateDateAfter checks that a YYYY-MM-DD field is strictly after the
// sibling field named by the tag parameter. Unparseable values pass here and
// are reported by the datetime tag instead.
func validateDateAfter(fl validator.FieldLevel) bool {
	other := reflect.Indirect(fl.Parent()).FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	after, err := time.Parse(DateLayout, fl.Field().String())
	if err != nil {
		return true
	}
	before, err := time.Parse(DateLayout, other.String())
	if err != nil {
		return true
	}
	return after.After(before)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateStruct runs the struct's validate tags. It returns nil when every
// rule passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewFieldError("request", "invalid", err.Error())
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{fields: out}
}

// messages holds the text for each rule. %[1]s is the field and %[2]s the
// rule parameter.
var messages = map[string]string{
	"required":   "%[1]s is required",
	"notblank":   "%[1]s must not be blank",
	"email":      "%[1]s must be a valid email address",
	"datetime":   "%[1]s must be a date in YYYY-MM-DD format",
	"url":        "%[1]s must be a valid URL",
	"uuid":       "%[1]s must be a valid UUID",
	"oneof":      "%[1]s must be one of: %[2]s",
	"gte":        "%[1]s must be greater than or equal to %[2]s",
	"lte":        "%[1]s must be less than or equal to %[2]s",
	"gt":         "%[1]s must be greater than %[2]s",
	"lt":         "%[1]s must be less than %[2]s",
	"date_after": "%[1]s must be after %[2]s",
}

// boundUnits names what min and max count, by field kind.
var boundUnits = map[reflect.Kind]string{
	reflect.String: " characters",
	reflect.Slice:  " items",
	reflect.Map:    " entries",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	switch tag {
	case "date_after":
		param = toSnake(param)
	case "min", "max":
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		return field + " must be " + bound + " " + param + boundUnits[fe.Kind()]
	}

	if msg, ok := messages[tag]; ok {
		return fmt.Sprintf(msg, field, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

// toSnake turns a Go field name such as CheckIn into check_in.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
