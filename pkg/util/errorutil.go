package util

import (
	"errors"
	"fmt"
	"net/http"
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

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewMalformedCredential signals a bearer credential that could not be
// split, decoded, or parsed.
func NewMalformedCredential(err error) error {
	return &DomainError{
		Code:       "MALFORMED_CREDENTIAL",
		Message:    "invalid or expired token",
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// NewIdentityMissing signals a decoded credential without an email claim.
func NewIdentityMissing() error {
	return NewDomainError("IDENTITY_MISSING", "unable to extract user identity from token", http.StatusUnauthorized, nil)
}

// NewInvalidRole signals a role absent from the routing table.
func NewInvalidRole(role string) error {
	return NewDomainError("INVALID_ROLE", "invalid role specified", http.StatusBadRequest, map[string]any{"role": role})
}

// NewPersistenceFailure signals a failed insert or update against the
// record store. Fatal for the request; never retried.
func NewPersistenceFailure(err error) error {
	return &DomainError{
		Code:       "PERSISTENCE_FAILURE",
		Message:    "something went wrong while updating profile",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
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
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
