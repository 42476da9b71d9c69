// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Store errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Input and permission errors.
	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")

	// Sheet source errors.
	ErrFetchFailed   = errors.New("sheet fetch failed")
	ErrNotCSVExport  = errors.New("source is not a CSV export")
	ErrNoSourceSetUp = errors.New("sheet source not configured")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
	Hint        string
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

// NewUserErrorWithHint creates a user-friendly error with a remediation hint.
func NewUserErrorWithHint(userMessage, hint string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Hint:        hint,
		Err:         err,
	}
}

// HintFor returns the remediation hint attached to err, if any.
func HintFor(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Hint
	}
	return ""
}

// ItemError is the failure of one item in a batch.
type ItemError struct {
	Err  error
	Item string
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Item, e.Err)
}

// BatchError collects per-item failures of a best-effort batch. Items that
// succeeded stay committed.
type BatchError struct {
	Op        string
	Failures  []ItemError
	Succeeded int
}

// Add records a failed item.
func (e *BatchError) Add(item string, err error) {
	e.Failures = append(e.Failures, ItemError{Item: item, Err: err})
}

// Err returns nil when no item failed.
func (e *BatchError) Err() error {
	if e == nil || len(e.Failures) == 0 {
		return nil
	}
	return e
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%s: %d of %d items failed: %s",
		e.Op, len(e.Failures), len(e.Failures)+e.Succeeded, strings.Join(msgs, "; "))
}

// Messages returns one line per failed item.
func (e *BatchError) Messages() []string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return msgs
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
