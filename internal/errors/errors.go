package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the stable machine-readable part of an error.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrTextTooLong    ErrorCode = "TEXT_TOO_LONG"
	ErrCatalogInvalid ErrorCode = "CATALOG_INVALID"
	ErrInternal       ErrorCode = "INTERNAL"
)

// SolefitError carries a code, the matching HTTP status and optional details.
type SolefitError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SolefitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SolefitError {
	return &SolefitError{
		Code:    ErrInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewNotFound creates a 404 error. kind names what was looked up ("result", "item").
func NewNotFound(kind, identifier string) *SolefitError {
	return &SolefitError{
		Code:    ErrNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewTextTooLong creates a 413 error when line-break input exceeds the size limit.
func NewTextTooLong(max, actual int) *SolefitError {
	return &SolefitError{
		Code:    ErrTextTooLong,
		Status:  http.StatusRequestEntityTooLarge,
		Message: fmt.Sprintf("text exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewCatalogInvalid creates a 422 error for catalog or question bank data
// that fails validation.
func NewCatalogInvalid(source string, problems []string) *SolefitError {
	return &SolefitError{
		Code:    ErrCatalogInvalid,
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("invalid %s: %v", source, problems),
		Details: map[string]any{"source": source, "problems": problems},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SolefitError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SolefitError{
		Code:    ErrInternal,
		Status:  http.StatusInternalServerError,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a SolefitError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SolefitError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As extracts a SolefitError from err, wrapping anything else as internal.
func As(err error) *SolefitError {
	if err == nil {
		return nil
	}
	var sErr *SolefitError
	if stderrors.As(err, &sErr) {
		return sErr
	}
	return NewInternal(err)
}
