package apperrors

import (
	"errors"
	"net/http"
)

// HTTPError is implemented by errors that map onto an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
	Code() string
}

// Sentinel errors, matched with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

type (
	// NotFoundError indicates a referenced entity is absent
	NotFoundError struct {
		Resource string
		Message  string
	}

	// ConflictError indicates a uniqueness violation, e.g. a second sale for one item
	ConflictError struct {
		Resource string
		Message  string
	}

	// BadRequestError indicates an inconsistent or malformed request
	BadRequestError struct {
		Message string
	}

	// ForbiddenError indicates an authorization or assignment check failed
	ForbiddenError struct {
		Message string
	}

	// ValidationError carries field-level problems
	ValidationError struct {
		Message string
		Fields  map[string]string
	}

	// UnauthorizedError indicates missing or invalid credentials
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ConflictError) Error() string     { return e.Message }
func (e *BadRequestError) Error() string   { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ConflictError) StatusCode() int     { return http.StatusConflict }
func (e *BadRequestError) StatusCode() int   { return http.StatusBadRequest }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

func (e *NotFoundError) Code() string     { return "NOT_FOUND" }
func (e *ConflictError) Code() string     { return "CONFLICT" }
func (e *BadRequestError) Code() string   { return "BAD_REQUEST" }
func (e *ForbiddenError) Code() string    { return "FORBIDDEN" }
func (e *ValidationError) Code() string   { return "VALIDATION_ERROR" }
func (e *UnauthorizedError) Code() string { return "UNAUTHORIZED" }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ConflictError) Is(target error) bool     { return target == ErrConflict }
func (e *BadRequestError) Is(target error) bool   { return target == ErrBadRequest }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// NotFound builds a NotFoundError for the named resource
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource, Message: resource + " not found"}
}

// Conflict builds a ConflictError
func Conflict(resource, message string) error {
	return &ConflictError{Resource: resource, Message: message}
}

// BadRequest builds a BadRequestError
func BadRequest(message string) error {
	return &BadRequestError{Message: message}
}

// Forbidden builds a ForbiddenError
func Forbidden(message string) error {
	return &ForbiddenError{Message: message}
}

// Invalid builds a ValidationError for a single field
func Invalid(field, problem string) error {
	return &ValidationError{
		Message: "invalid " + field + ": " + problem,
		Fields:  map[string]string{field: problem},
	}
}

// Unauthorized builds an UnauthorizedError
func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}
