// Package dto defines the request/response shapes of the REST surface and
// the GraphQL input objects. Inputs are plain structs with an explicit
// Validate function returning a list of field errors.
//
// String fields are trimmed before validation, except password fields which
// are preserved verbatim: leading or trailing whitespace in a password is
// part of the password.
package dto

import "strings"

// FieldError reports a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the full validation result for one input.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(msgs, "; ")
}

// OrNil returns the list as an error, or nil when empty. A typed nil
// FieldErrors inside an error interface would still be non-nil.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func requireMin(errs FieldErrors, field, value string, min int) FieldErrors {
	if len(value) < min {
		if value == "" {
			return append(errs, FieldError{Field: field, Message: "must not be empty"})
		}
		return append(errs, FieldError{Field: field, Message: "too short"})
	}
	return errs
}
