package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the inbound signal carries a bad or
	// missing shared secret. No exchange call is made.
	ErrUnauthorized = errors.New("unauthorized: bad or missing signal secret")

	// ErrInstrumentNotFound is returned when the instrument lookup comes back
	// empty for the requested identifier.
	ErrInstrumentNotFound = errors.New("instrument not found")
)

// InvalidSignalError reports a missing or malformed field on an inbound
// signal. Terminal; no exchange call is made.
type InvalidSignalError struct {
	Field  string
	Reason string
}

func (e *InvalidSignalError) Error() string {
	return "invalid signal [" + e.Field + "]: " + e.Reason
}

// UpstreamLookupError means instrument metadata could not be resolved.
// Terminal for the whole execution: no orders are placed.
type UpstreamLookupError struct {
	InstID string
	Err    error
}

func (e *UpstreamLookupError) Error() string {
	return "instrument lookup failed [" + e.InstID + "]: " + e.Err.Error()
}

func (e *UpstreamLookupError) Unwrap() error {
	return e.Err
}

// NetworkError represents a transport-level failure calling the exchange.
// For the entry order it aborts the whole execution; for an exit order it
// aborts only that exit.
type NetworkError struct {
	Op  string // Operation that failed (e.g., "place entry", "fetch instrument")
	Err error  // Underlying error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new network error for the given operation.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// OrderRejectedError is a business-level rejection from the exchange: the
// request reached the exchange and was refused with a non-success code.
// Distinct from NetworkError so callers can tell "the exchange said no"
// apart from "the exchange was unreachable".
type OrderRejectedError struct {
	Op   string
	Code string
	Msg  string
	Raw  json.RawMessage
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("%s rejected by exchange: code=%s msg=%s", e.Op, e.Code, e.Msg)
}
