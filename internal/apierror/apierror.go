// Package apierror defines the tagged error type returned across service
// boundaries and its mapping to HTTP status codes.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindConflict
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
	KindLogoutFailed
)

// NonFieldErrors is the field key used for errors not tied to an input field.
const NonFieldErrors = "non_field_errors"

// APIError is an error with a uniform field-to-messages detail.
type APIError struct {
	Kind   Kind
	Fields map[string][]string
	Err    error
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail(), e.Err)
	}
	return e.Detail()
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Detail returns the first message, preferring non-field errors.
func (e *APIError) Detail() string {
	if msgs := e.Fields[NonFieldErrors]; len(msgs) > 0 {
		return msgs[0]
	}
	for field, msgs := range e.Fields {
		if len(msgs) > 0 {
			return field + ": " + msgs[0]
		}
	}
	return e.Message()
}

// Message is the envelope-level summary for the error kind.
func (e *APIError) Message() string {
	switch e.Kind {
	case KindValidation:
		return "Validation failed"
	case KindUnauthenticated:
		return "Authentication failed"
	case KindForbidden:
		return "Permission denied"
	case KindInternal:
		return "Internal server error"
	default:
		return "Bad request"
	}
}

// HTTPStatus maps the kind to a response status code.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest, KindConflict, KindInvalidCredentials, KindLogoutFailed:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// New creates an APIError with a single non-field message.
func New(kind Kind, detail string) *APIError {
	return &APIError{Kind: kind, Fields: map[string][]string{NonFieldErrors: {detail}}}
}

// As extracts an APIError from the chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}
