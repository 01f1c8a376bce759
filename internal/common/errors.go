// Package common provides shared utilities and types used across the engine.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common engine errors.
var (
	// Storage errors.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Request errors.
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnknownOperation = errors.New("unknown operation")

	// Analysis errors.
	ErrNoData           = errors.New("no transactions in window")
	ErrInsufficientData = errors.New("insufficient data points")
)

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

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
