package console

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized marks an authentication failure. Callers clear
	// credentials and redirect to login instead of retrying.
	ErrUnauthorized = errors.New("console: authentication required")

	// ErrActionInFlight is returned when a dispatch for the same target is
	// already pending; the repeated submit is a no-op.
	ErrActionInFlight = errors.New("console: action already in flight for target")

	errMissingFetcher    = errors.New("console: collection fetcher not configured")
	errMissingMutator    = errors.New("console: mutator not configured")
	errUnknownCollection = errors.New("console: unknown collection")
	errUnknownAction     = errors.New("console: unknown action kind")
)

// TransportError wraps a network-level failure reaching the backend.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("console: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError carries a backend rejection. Message is surfaced to the user
// verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("console: server rejected request (status %d)", e.Status)
}

// ValidationError is raised before any network call when a dispatch payload
// fails local validation. Field identifies the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsAuthFailure reports whether err represents an authentication failure,
// unwrapping as needed.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
