package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorCode int

// AppError is the one error type crossing package boundaries. Message is
// safe to show to a user; Status is the HTTP status it maps to, 0 when the
// failure never reached a server.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Backend codes.
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrInternal
	ErrConflict
)

// Console codes.
const (
	ErrUnauthenticated ErrorCode = iota + 2000
	ErrValidation
	ErrRequestFailed
)

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: resource + " not found",
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// Internal hides err behind a generic message.
func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// Unauthenticated means there is no usable local session. It is resolved by
// redirecting to login and is never shown inline.
func Unauthenticated(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthenticated,
		Message: "authentication required",
		Err:     err,
	}
}

// Validation is a client-side invariant violation detected before any
// network call.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

// RequestFailed wraps a failed remote call. message is the server-provided
// text and may be empty.
func RequestFailed(status int, message string, err error) *AppError {
	return &AppError{
		Code:    ErrRequestFailed,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or 0.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

func IsUnauthenticated(err error) bool { return CodeOf(err) == ErrUnauthenticated }

func IsValidation(err error) bool { return CodeOf(err) == ErrValidation }

// MessageOr returns the user-facing message carried by err, falling back to
// fallback when err has none.
func MessageOr(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// WithFallback makes sure err carries a user-facing message. AppErrors that
// already have one are returned unchanged; anything else gets fallback.
func WithFallback(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if appErr.Message != "" {
			return err
		}
		withMessage := *appErr
		withMessage.Message = fallback
		return &withMessage
	}
	return RequestFailed(0, fallback, err)
}
