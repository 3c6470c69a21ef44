// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrRequestFailed      = errors.New("request failed")
	ErrBadStatus          = errors.New("unexpected HTTP status")
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrUnsuccessful       = errors.New("api reported failure")
	ErrNoData             = errors.New("no data for entity")
	ErrNoEntities         = errors.New("no entities to process")
	ErrNothingToSend      = errors.New("nothing to send")
	ErrMissingCredentials = errors.New("telegram bot token or chat id not set")
	ErrEmptyMessage       = errors.New("empty message")
	ErrSendFailed         = errors.New("notification send failed")
	ErrUnknownSlot        = errors.New("unknown schedule slot")
	ErrConfigInvalid      = errors.New("invalid configuration")
)

// FetchError represents a failed fetch for one tracked entity.
type FetchError struct {
	Entity string
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error [%s] %s: %v", e.Entity, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(entity, op string, err error) *FetchError {
	return &FetchError{
		Entity: entity,
		Op:     op,
		Err:    err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
