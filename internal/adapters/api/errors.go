package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Client errors. Every error returned by Client wraps one of these.
var (
	ErrNetworkError   = errors.New("network error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrRateLimited    = errors.New("rate limited")
	ErrServerError    = errors.New("server error")
	ErrUnexpected     = errors.New("unexpected response")
	ErrInvalidPhone   = errors.New("invalid phone number")
)

// Error is a non-2xx response. Message is the server's user-facing text,
// which may be empty.
type Error struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	kind      error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: status %d", e.kind, e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.kind
}

// UserMessage returns the server-provided message. The registration wizard
// shows it verbatim instead of its generic failure text.
func (e *Error) UserMessage() string {
	return e.Message
}

// Transient reports whether retrying the same request may succeed.
func Transient(err error) bool {
	return errors.Is(err, ErrNetworkError) ||
		errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrRateLimited)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newError(status int, body []byte, requestID string) *Error {
	e := &Error{Status: status, RequestID: requestID, kind: kindFor(status)}

	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		e.Code = parsed.Code
		e.Message = strings.TrimSpace(parsed.Message)
	}
	return e
}

func kindFor(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrInvalidRequest
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServerError
	default:
		return ErrUnexpected
	}
}
