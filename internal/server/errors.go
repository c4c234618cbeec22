package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-interviewer/internal/interview"
	"github.com/jonathan/resume-interviewer/internal/llm"
)

// ErrSessionNotFound indicates an unknown or expired session ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrValidation indicates a malformed request body or parameter
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		answerErr     *interview.ValidationError
		fieldErrs     validator.ValidationErrors
		transportErr  *llm.TransportError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &answerErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrBusy),
		errors.Is(err, interview.ErrNotWaiting),
		errors.Is(err, interview.ErrAlreadyStarted),
		errors.Is(err, interview.ErrReset):
		return http.StatusConflict
	case errors.As(err, &transportErr):
		if transportErr.RateLimited() {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable code sent alongside the message.
func errorCode(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		if errors.Is(err, interview.ErrBusy) {
			return "busy"
		}
		return "wrong_state"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusBadGateway:
		return "upstream_error"
	default:
		return "internal_error"
	}
}
