package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/card-directory/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports the first failing field of a payload.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Err:        domain.ErrNotFound,
	}
}

func NewUnauthenticated(message string) error {
	return &DomainError{Code: "UNAUTHENTICATED", Message: message, HTTPStatus: http.StatusUnauthorized, Err: domain.ErrUnauthenticated}
}

func NewInvalidToken(message string) error {
	return &DomainError{Code: "INVALID_TOKEN", Message: message, HTTPStatus: http.StatusBadRequest, Err: domain.ErrInvalidToken}
}

func NewForbidden(message string) error {
	return &DomainError{Code: "FORBIDDEN", Message: message, HTTPStatus: http.StatusForbidden, Err: domain.ErrForbidden}
}

func NewMalformedID(resource string) error {
	return &DomainError{
		Code:       "MALFORMED_ID",
		Message:    fmt.Sprintf("invalid %s id format", resource),
		HTTPStatus: http.StatusBadRequest,
		Err:        domain.ErrMalformedID,
	}
}

func NewDuplicateEmail(message string) error {
	return &DomainError{
		Code:       "DUPLICATE_EMAIL",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": "email"},
		Err:        domain.ErrDuplicateEmail,
	}
}

// NewInvalidCredentials is returned for both unknown email and wrong password.
func NewInvalidCredentials() error {
	return &DomainError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "invalid email or password",
		HTTPStatus: http.StatusForbidden,
		Err:        domain.ErrInvalidCredentials,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var mapped error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		mapped = NewNotFound("resource")
	case errors.Is(err, domain.ErrMalformedID):
		mapped = NewMalformedID("resource")
	case errors.Is(err, domain.ErrDuplicateEmail):
		mapped = NewDuplicateEmail("email already exists")
	case errors.Is(err, domain.ErrInvalidToken):
		mapped = NewInvalidToken("invalid token")
	case errors.Is(err, domain.ErrUnauthenticated):
		mapped = NewUnauthenticated("access denied, no token provided")
	case errors.Is(err, domain.ErrForbidden):
		mapped = NewForbidden("forbidden")
	case errors.Is(err, domain.ErrInvalidCredentials):
		mapped = NewInvalidCredentials()
	default:
		mapped = NewInternalError(err)
	}
	errors.As(mapped, &domainErr)
	return domainErr
}
