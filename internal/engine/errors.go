// internal/engine/errors.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrBodyTooLarge    = errors.New("response body too large")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeHTTPStatus   ErrorCode = "HTTP_STATUS"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeBrowser      ErrorCode = "BROWSER"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
)

// EngineError wraps fetch failures with a code and the URL involved
type EngineError struct {
	Code       ErrorCode
	URL        string
	Status     int
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: HTTP %d", e.Code, e.Status)
	}
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches another EngineError by code
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return false
}

// GetStatusCode lets the retry package decide on HTTP status errors
func (e *EngineError) GetStatusCode() int {
	return e.Status
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, url, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		URL:        url,
		Message:    message,
		Underlying: err,
	}
}

// StatusError reports a non-200 response
func StatusError(url string, status int) *EngineError {
	return &EngineError{Code: ErrCodeHTTPStatus, URL: url, Status: status}
}

// FromTransport classifies an error returned by an HTTP round trip
func FromTransport(url string, err error) *EngineError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewEngineError(ErrCodeTimeout, url, "request timed out", err)
	}
	return NewEngineError(ErrCodeNetworkError, url, "request failed", err)
}

// Outcome is a short label for metrics: ok, http_<status>, timeout or error
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		switch ee.Code {
		case ErrCodeHTTPStatus:
			return fmt.Sprintf("http_%d", ee.Status)
		case ErrCodeTimeout:
			return "timeout"
		}
	}
	return "error"
}
