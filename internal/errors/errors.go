// Package errors provides standardized domain errors that express client intent
// rather than transport details. Orchestrators wrap these sentinels in domain-specific
// errors and callers branch on them with errors.Is.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key, version mismatch).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrUnsupported indicates the target resource does not support the requested operation.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrRejected indicates the remote service refused an operation that is well-formed
	// but not permitted in the current state of the resource.
	ErrRejected = errors.New("operation rejected")

	// ErrProtocol indicates a response that violates the wire contract. Always fatal for the call.
	ErrProtocol = errors.New("protocol violation")

	// ErrRemoteService indicates an opaque failure reported by the remote service.
	ErrRemoteService = errors.New("remote service error")
)

// RemoteError is the structured error reported by the remote service.
// Messages are preserved verbatim for diagnostics.
type RemoteError struct {
	StatusCode int
	Messages   []string
}

// NewRemoteError creates a RemoteError for the given status code and messages.
func NewRemoteError(statusCode int, messages ...string) *RemoteError {
	return &RemoteError{
		StatusCode: statusCode,
		Messages:   messages,
	}
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("remote service error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote service error: status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Unwrap exposes ErrRemoteService and, when the status code carries one, the matching sentinel.
func (e *RemoteError) Unwrap() []error {
	errs := []error{ErrRemoteService}
	if sentinel := statusSentinel(e.StatusCode); sentinel != nil {
		errs = append(errs, sentinel)
	}
	return errs
}

// Contains reports whether any message contains substr, ignoring case.
func (e *RemoteError) Contains(substr string) bool {
	needle := strings.ToLower(substr)
	for _, msg := range e.Messages {
		if strings.Contains(strings.ToLower(msg), needle) {
			return true
		}
	}
	return false
}

func statusSentinel(statusCode int) error {
	switch statusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Join wraps cause with the domain error so both remain reachable through errors.Is/As.
func Join(domainErr, cause error) error {
	if cause == nil {
		return domainErr
	}
	return fmt.Errorf("%w: %w", domainErr, cause)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// AsRemote returns the RemoteError in err's tree, if any.
func AsRemote(err error) (*RemoteError, bool) {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr, true
	}
	return nil, false
}
