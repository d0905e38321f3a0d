package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a typed failure from fetching or parsing a page
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	URL     string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	msg += ": " + e.Message
	if e.URL != "" {
		msg += " [" + e.URL + "]"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(t ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{Type: t, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a typed error around a cause
func Wrap(t ErrorType, err error, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}

// FromStatus maps an HTTP status code to an error, or nil for success codes
func FromStatus(code int, url string) *Error {
	var t ErrorType
	switch {
	case code < 400:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		t = ErrorTypeNotFound
	case code == http.StatusTooManyRequests:
		t = ErrorTypeRateLimit
	case code >= 500:
		t = ErrorTypeServerError
	default:
		t = ErrorTypeUnknown
	}
	return &Error{
		Type:    t,
		Message: fmt.Sprintf("unexpected status %d %s", code, http.StatusText(code)),
		Code:    code,
		URL:     url,
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown when err is untyped
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0, 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
