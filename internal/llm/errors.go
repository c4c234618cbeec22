package llm

import (
	"fmt"
	"net/http"
)

// TransportError is returned when a generation call fails: network, auth,
// rate limiting, or a response that cannot be decoded.
type TransportError struct {
	Provider   Provider
	Message    string
	StatusCode int // 0 when the failure happened before a response
	Cause      error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// RateLimited reports whether the provider rejected the call for quota reasons.
func (e *TransportError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
