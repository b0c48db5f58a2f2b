package shared

import (
	"errors"
	"fmt"
)

// Kind classifies failures crossing the console's service boundaries.
type Kind string

const (
	// KindInvalidCredentials indicates a rejected login attempt.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindAuthorizationExpired indicates a 401/403 on an authenticated call.
	KindAuthorizationExpired Kind = "authorization_expired"
	// KindNetworkFailure indicates the upstream API produced no response.
	KindNetworkFailure Kind = "network_failure"
	// KindServerError indicates a 5xx from the upstream API.
	KindServerError Kind = "server_error"
	// KindValidationFailure indicates a 422 with field-level detail.
	KindValidationFailure Kind = "validation_failure"
	// KindForbidden indicates a locally denied action (role hierarchy).
	KindForbidden Kind = "forbidden"
	// KindTransportError indicates a pub/sub connection or subscription failure.
	KindTransportError Kind = "transport_error"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrLoginInFlight indicates a login attempt while another is pending.
	ErrLoginInFlight = errors.New("login already in progress")
	// ErrNotAuthenticated indicates an operation requiring an active session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Error carries a failure kind plus optional per-field validation detail.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an Error with the given kind and message.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error with the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation builds a validation failure carrying per-field messages.
func Validation(message string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidationFailure, Message: message, Fields: fields}
}

// KindOf extracts the failure kind, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsAuthorizationClass reports whether err must force a logout transition.
// Invalid credentials stay out: they never reach an authenticated call.
func IsAuthorizationClass(err error) bool {
	return IsKind(err, KindAuthorizationExpired)
}
