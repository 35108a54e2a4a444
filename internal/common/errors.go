// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound reports that a record vanished server-side. The local
	// cache is known stale when this surfaces from an edit or delete.
	ErrNotFound = errors.New("not found")

	// ErrMissingConfig reports required configuration that was never set.
	ErrMissingConfig = errors.New("missing configuration")
)

// ValidationError is a locally detected input problem. It never reaches
// the network and is surfaced synchronously to the initiating form.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a named field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a locally detected validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransportError covers network failures, timeouts, and non-2xx responses
// that are neither auth rejections nor missing records. Status is zero when
// no response was received at all.
type TransportError struct {
	Err    error
	Op     string
	Status int
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError marks a 401/403 from any call. Session invalidation is handled
// above this layer; here it only needs to stay distinguishable from a
// generic transport failure.
type AuthError struct {
	Op     string
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication rejected (%d)", e.Op, e.Status)
}

// IsAuth reports whether err is an authentication rejection.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
