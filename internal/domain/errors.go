// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/CLI output by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates user input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrFormat indicates a payload (import file, persisted state) has the wrong shape.
	ErrFormat = errors.New("invalid format")

	// ErrNetwork indicates a push to or pull from the remote source failed or timed out.
	ErrNetwork = errors.New("network failure")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError reports a required field that is missing or invalid.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// FormatError reports a payload that could not be interpreted as a quote list.
// Cause is the underlying decode error, if any.
type FormatError struct {
	Source string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	msg := fmt.Sprintf("invalid %s format: %s", e.Source, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the sentinel and the cause for errors.Is() support.
func (e *FormatError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrFormat, e.Cause}
	}

	return []error{ErrFormat}
}

// NewFormatError creates a format error for the named payload source.
func NewFormatError(source, reason string, cause error) error {
	return &FormatError{Source: source, Reason: reason, Cause: cause}
}

// NetworkError reports a failed exchange with the remote quote source.
type NetworkError struct {
	Service   string
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s %s failed: %s", e.Service, e.Operation, e.Reason)
	}

	return fmt.Sprintf("%s unreachable: %s", e.Service, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NetworkError) Unwrap() error {
	return ErrNetwork
}

// NewNetworkError creates a network error with context.
func NewNetworkError(service, operation, reason string) error {
	return &NetworkError{Service: service, Operation: operation, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsFormat checks if an error is a format error.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsNetwork checks if an error is a network error.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
