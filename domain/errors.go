package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failed backend exchange so callers can branch without
// matching on messages.
type ErrorCode string

const (
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInvalid       ErrorCode = "INVALID"
	ErrCodeServer        ErrorCode = "SERVER_ERROR"
	ErrCodeTransport     ErrorCode = "TRANSPORT"
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"
)

// Fallback messages used when the backend does not supply a detail.
const (
	MsgRequestFailed    = "Request failed"
	MsgUnreadableError  = "An error occurred"
	MsgTransportFailure = "backend unreachable"
)

// Error is the single error type surfaced by the API client.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StatusError builds the error for a non-success HTTP status.
func StatusError(status int, message string) *Error {
	return &Error{
		Code:    CodeForStatus(status),
		Status:  status,
		Message: message,
	}
}

// CodeForStatus maps an HTTP status code onto the closed error code set.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status >= 400 && status < 500:
		return ErrCodeInvalid
	case status >= 500 && status < 600:
		return ErrCodeServer
	default:
		return ErrCodeRequestFailed
	}
}

// Common domain errors.
var (
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
