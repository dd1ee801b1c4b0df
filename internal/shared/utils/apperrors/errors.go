package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is the closed set of error categories the booking core emits.
// Every component wraps lower-level failures into exactly one of these
// at its boundary; raw storage errors never cross package borders.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindConflict     Kind = "AVAILABILITY_CONFLICT"
	KindLockNotFound Kind = "LOCK_NOT_FOUND"
	KindPayment      Kind = "PAYMENT_ERROR"
	KindNotFound     Kind = "RESOURCE_NOT_FOUND"
	KindInternal     Kind = "INTERNAL_ERROR"
	KindUnauthorized Kind = "UNAUTHORIZED"
)

// AppError carries a machine-readable code, a stable user-facing message,
// optional structured details and a timestamp.
type AppError struct {
	Kind      Kind        `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	cause     error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps each kind to its single status class.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindLockNotFound:
		return http.StatusNotFound
	case KindPayment:
		return http.StatusPaymentRequired
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a client should retry the same request
// without changing anything. Only transient internal failures qualify.
func (e *AppError) Retryable() bool {
	return e.Kind == KindInternal
}

func newError(kind Kind, message string, details interface{}, cause error) *AppError {
	return &AppError{
		Kind:      kind,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func Validation(message string, details interface{}) *AppError {
	return newError(KindValidation, message, details, nil)
}

func Conflict(message string, details interface{}) *AppError {
	return newError(KindConflict, message, details, nil)
}

func LockNotFound(message string) *AppError {
	return newError(KindLockNotFound, message, nil, nil)
}

func Payment(message string, cause error) *AppError {
	return newError(KindPayment, message, nil, cause)
}

func NotFound(message string) *AppError {
	return newError(KindNotFound, message, nil, nil)
}

func Unauthorized(message string) *AppError {
	return newError(KindUnauthorized, message, nil, nil)
}

// Internal wraps a storage or infrastructure failure. The cause is kept
// for logs; the message is what the caller sees.
func Internal(message string, cause error) *AppError {
	return newError(KindInternal, message, nil, cause)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// From extracts the AppError from err, or wraps it as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}
