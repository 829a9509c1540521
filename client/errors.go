package client

import (
	"errors"
	"fmt"
)

// ErrActionInFlight is returned when a command is refused because another
// command for the same entity and action is still awaiting its response.
var ErrActionInFlight = errors.New("action already in flight for this entity")

// ValidationError is a client-detectable problem with a draft, caught
// before anything is sent to the remote store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ConflictError means the remote store rejected a transition because the
// entity changed concurrently. The caller refetches and re-renders; the
// original action is never replayed automatically.
type ConflictError struct {
	Entity  string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Entity, e.Message)
}

// UnknownSessionError means a payment session id did not match any
// pending checkout. Terminal; manual navigation is the only retry.
type UnknownSessionError struct {
	SessionID string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("unknown payment session %q", e.SessionID)
}

// NetworkError wraps a transport-level failure. Transient; the user may
// retry the triggering action manually, no automatic backoff.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is any other rejection by the remote store (auth failures,
// missing entities, server faults) surfaced with its HTTP status.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store rejected request (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// IsConflict reports whether err is a ConflictError, possibly wrapped.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsUnknownSession reports whether err is an UnknownSessionError.
func IsUnknownSession(err error) bool {
	var ue *UnknownSessionError
	return errors.As(err, &ue)
}
