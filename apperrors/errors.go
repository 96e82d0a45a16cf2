package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable category of an application error.
type Kind int

const (
	KindUnknown Kind = iota
	KindAlreadyExists
	KindNotFound
	KindInvalidCredentials
	KindTokenExpired
	KindTokenInvalid
	KindValidation
	KindDatabase
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindTokenExpired:
		return "token_expired"
	case KindTokenInvalid:
		return "token_invalid"
	case KindValidation:
		return "validation"
	case KindDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// Code is the machine-readable value rendered in JSON error bodies.
func (k Kind) Code() string {
	switch k {
	case KindAlreadyExists:
		return "ALREADY_EXISTS"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindTokenExpired:
		return "TOKEN_EXPIRED"
	case KindTokenInvalid:
		return "TOKEN_INVALID"
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindDatabase:
		return "DATABASE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// AppError represents a structured application error
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any *AppError of the same kind, so callers can compare against
// the package sentinels with errors.Is.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrAlreadyExists      = &AppError{Kind: KindAlreadyExists}
	ErrNotFound           = &AppError{Kind: KindNotFound}
	ErrInvalidCredentials = &AppError{Kind: KindInvalidCredentials}
	ErrTokenExpired       = &AppError{Kind: KindTokenExpired}
	ErrTokenInvalid       = &AppError{Kind: KindTokenInvalid}
	ErrValidation         = &AppError{Kind: KindValidation}
)

func NewAlreadyExists(message string) *AppError {
	return &AppError{Kind: KindAlreadyExists, Message: message}
}

func NewNotFound(resource string, id interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %v", resource, id)}
}

func NewInvalidCredentials(message string) *AppError {
	return &AppError{Kind: KindInvalidCredentials, Message: message}
}

func NewTokenExpired(cause error) *AppError {
	return &AppError{Kind: KindTokenExpired, Message: "token has expired", Cause: cause}
}

func NewTokenInvalid(cause error) *AppError {
	return &AppError{Kind: KindTokenInvalid, Message: "token is invalid", Cause: cause}
}

func NewValidation(message string, cause error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Cause: cause}
}

func NewDatabase(operation string, cause error) *AppError {
	return &AppError{Kind: KindDatabase, Message: fmt.Sprintf("database operation failed: %s", operation), Cause: cause}
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Message returns the caller-facing message, hiding causes of unknown errors.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAlreadyExists:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCredentials, KindTokenExpired, KindTokenInvalid:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
