package types

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when the caller has no relationship or role
	// granting the attempted operation. Never retryable.
	ErrForbidden = errors.New("forbidden")

	// ErrEngagementNotFound covers both a missing id and, on reads, a record
	// the caller may not see.
	ErrEngagementNotFound = errors.New("engagement not found")

	// ErrInvalidTransition is returned when a status write is not reachable
	// from the record's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConflict is returned when the record changed between read and write.
	// The caller should re-read and resubmit.
	ErrConflict = errors.New("engagement modified concurrently")
)

// ValidationError names the offending field of a rejected request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
