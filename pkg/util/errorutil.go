package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced in the response envelope.
const (
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeNotFound            = "NOT_FOUND"
	CodeSessionStoreFailure = "SESSION_STORE_FAILURE"
	CodeTransientInfra      = "TRANSIENT_INFRA"
	CodeInternal            = "INTERNAL_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeValidation          = "VALIDATION_FAILED"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]string
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
func NewDomainError(code, message string, status int, details map[string]string) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]string) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewPermissionDenied marks a role request the caller is not assigned.
// Raised before any store mutation.
func NewPermissionDenied(message string) error {
	return NewDomainError(CodePermissionDenied, message, http.StatusForbidden, nil)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewSessionStoreFailure wraps a failed session-store call. When raised at
// session creation time the user's active role has already been persisted;
// callers must re-fetch session state before trusting cached claims.
func NewSessionStoreFailure(message string, err error) error {
	return &DomainError{
		Code:       CodeSessionStoreFailure,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	message := "internal server error"
	if err != nil {
		message = err.Error()
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsBusinessFailure reports whether the error is a pre-mutation business
// outcome rather than an infrastructure fault.
func IsBusinessFailure(err *DomainError) bool {
	return err != nil && (err.Code == CodePermissionDenied || err.Code == CodeNotFound)
}

// IsTransient classifies timeout, connection and IO failures reaching the
// cache or datastore, walking wrapped causes. Transient failures are
// reported distinctly but never retried here.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "connection reset", "broken pipe", "i/o timeout", "no route to host"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ToDomainError converts generic errors to DomainError, classifying
// transient infrastructure faults along the way.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	if IsTransient(err) {
		return &DomainError{
			Code:       CodeTransientInfra,
			Message:    err.Error(),
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        err,
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
