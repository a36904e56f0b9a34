package utils

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind is the closed set of error categories shared with the
// sibling admin service. Unauthorized, Forbidden and Conflict are unused
// on this public surface but kept so both services render errors the
// same way.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindInternal
)

// AppError pairs an error kind with a client facing message.
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// HTTPStatus maps the kind to its response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports an absent or unpublished resource.
func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string) *AppError {
	return &AppError{Kind: KindInternal, Message: message}
}

// Classify converts any error into an AppError. Typed errors pass
// through unchanged and gorm's record-not-found maps to NotFound. The
// message sniffing below is a compatibility shim for legacy call sites
// only; it can misclassify unrelated errors whose text happens to
// contain a keyword, so new code must construct kinds directly.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("resource not found")
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return NewNotFoundError(err.Error())
	case strings.Contains(msg, "invalid"), strings.Contains(msg, "must be"):
		return NewValidationError(err.Error())
	default:
		return NewInternalError("internal server error")
	}
}
