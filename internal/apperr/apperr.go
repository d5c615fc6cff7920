// Package apperr defines the error taxonomy surfaced at the service
// boundary. Every failure a tool can report maps to exactly one Kind so the
// caller can branch (re-authenticate, fix input, retry) without parsing
// free-form text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable error code for a failure class.
type Kind string

const (
	// Validation means the input never reached storage.
	Validation Kind = "validation_error"
	// NotFound covers both truly absent IDs and IDs owned by another user.
	// The message is identical for both so existence never leaks.
	NotFound Kind = "not_found"
	// AuthRequired means no credential exists or the refresh token is no
	// longer usable. The caller must run the OAuth flow again.
	AuthRequired Kind = "authentication_required"
	// RemoteProvider means the Google API returned a fault.
	RemoteProvider Kind = "remote_provider_error"
	// Database means local persistence failed.
	Database Kind = "database_error"
)

// Error carries the taxonomy kind plus optional provider detail.
type Error struct {
	Kind    Kind
	Message string
	// Status and Reason carry the provider's HTTP status and reason when
	// the failure originated at the remote API.
	Status int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that wraps an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Remote creates a RemoteProvider error carrying the provider's status and
// reason when available.
func Remote(status int, reason string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    RemoteProvider,
		Message: fmt.Sprintf(format, args...),
		Status:  status,
		Reason:  reason,
		Err:     err,
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
