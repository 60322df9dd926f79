// Package core provides the domain types and error taxonomy for the fittrack data core.
package core

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeValidation indicates a domain invariant was violated before any
	// mutation was applied (overlapping cycle dates, activation outside the
	// date window, activation of a completed cycle).
	ErrorTypeValidation ErrorType = "validation_error"
	// ErrorTypeStorage indicates the underlying storage primitive failed to
	// read or write. Never mapped to "not found": a lookup miss is reported as
	// an absent value, not an error.
	ErrorTypeStorage ErrorType = "storage_error"
)

// DomainError is the base error type for all fittrack core errors
type DomainError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	// Op names the failing operation for storage errors (e.g. "kvstore.put")
	Op string `json:"op,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error with a user-facing message.
func NewValidationError(format string, args ...any) *DomainError {
	return &DomainError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewStorageError wraps a failure of the storage primitive.
func NewStorageError(op string, err error) *DomainError {
	msg := "storage unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &DomainError{
		Type:    ErrorTypeStorage,
		Message: msg,
		Op:      op,
		Err:     err,
	}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Type == ErrorTypeValidation
}

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Type == ErrorTypeStorage
}
