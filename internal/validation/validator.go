// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// CodeValidationFailed is the API error code of every validation failure.
const CodeValidationFailed = "VALIDATION_FAILED"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed field, named by its JSON name.
type FieldError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

// RequestValidationError holds the failed fields of one request, in
// declaration order.
type RequestValidationError struct {
	Fields []FieldError
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// APIError is the code, message and details of a validation failure, ready
// for the API error envelope.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError reports the first failed field. Requests carry a single user
// ID, so the first failure is the one the client has to fix.
func (ve *RequestValidationError) ToAPIError() *APIError {
	if len(ve.Fields) == 0 {
		return &APIError{Code: CodeValidationFailed, Message: "Validation failed"}
	}
	f := ve.Fields[0]
	return &APIError{
		Code:    CodeValidationFailed,
		Message: f.Message,
		Details: map[string]interface{}{
			"field": f.Field,
			"tag":   f.Tag,
			"value": f.Value,
		},
	}
}

// GetValidator returns the shared validator with the userid tag registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)

		if err := validate.RegisterValidation("userid", validateUserID); err != nil {
			panic(fmt.Sprintf("register userid validator: %v", err))
		}
	})
	return validate
}

// ValidateStruct validates s and returns nil when it passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "request", Tag: "invalid", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return &RequestValidationError{Fields: out}
}

// jsonFieldName returns the JSON name of a struct field, or its Go name
// when it has none.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "userid":
		return fe.Field() + " must be an integer"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// validateUserID accepts strings holding a base-10 integer that fits an int.
func validateUserID(fl validator.FieldLevel) bool {
	_, err := ParseUserID(fl.Field().String())
	return err == nil
}

// ParseUserID converts a user ID string to an int. Surrounding whitespace is
// ignored; anything else but an optional sign and digits is rejected.
func ParseUserID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("user ID is empty")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("user ID %q is not an integer", s)
	}
	return id, nil
}
