package interview

import (
	"errors"
	"fmt"
)

// Sentinel errors for operations attempted in the wrong state.
var (
	// ErrBusy is returned while a generation request is in flight
	ErrBusy = errors.New("interview: a request is already in flight")
	// ErrNotWaiting is returned when the session is not waiting for an answer
	ErrNotWaiting = errors.New("interview: session is not waiting for an answer")
	// ErrAlreadyStarted is returned by Begin on a session that has left Init
	ErrAlreadyStarted = errors.New("interview: session already started")
	// ErrReset is returned to a caller whose request finished after the session was reset
	ErrReset = errors.New("interview: session was reset while the request was in flight")
)

// ValidationError reports input rejected before any state change.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ExtractionParseError reports a finalization response that could not be
// turned into a structured record.
type ExtractionParseError struct {
	Message string
	Cause   error
}

func (e *ExtractionParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction parse error: %s", e.Message)
}

func (e *ExtractionParseError) Unwrap() error {
	return e.Cause
}
