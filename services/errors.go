package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithMessage returns a copy of e of the same type carrying message.
// Sentinels stay untouched, so details may be attached to the copy.
func (e *DomainError) WithMessage(message string) *DomainError {
	return NewDomainError(e.Type, message, e.Err)
}

// NewDomainError creates a new DomainError
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables. These are shared; derive a specific error with
// WithMessage before attaching details.

var (
	// Not Found Errors
	ErrUserNotFound  = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrPostNotFound  = NewDomainError(ErrorTypeNotFound, "post not found", nil)
	ErrRouteNotFound = NewDomainError(ErrorTypeNotFound, "route not found", nil)

	// Validation Errors
	ErrInvalidRole   = NewDomainError(ErrorTypeValidation, "invalid role", nil)
	ErrInvalidPeriod = NewDomainError(ErrorTypeValidation, "invalid period", nil)

	// Authorization Errors
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "Invalid credentials", nil)

	// Permission Errors
	ErrAccessDenied = NewDomainError(ErrorTypeForbidden, "Access denied", nil)

	// Conflict Errors
	ErrDuplicateLogin = NewDomainError(ErrorTypeConflict, "login already exists", nil)
)

// UserNotFound returns a not found error naming the missing login
func UserNotFound(login string) error {
	return ErrUserNotFound.
		WithMessage(fmt.Sprintf("User with login %q not found", login)).
		WithDetail("login", login)
}

// PostNotFound returns a not found error naming the missing post id
func PostNotFound(id string) error {
	return ErrPostNotFound.
		WithMessage(fmt.Sprintf("Post with id %s not found", id)).
		WithDetail("id", id)
}

// RouteNotFound returns a not found error for a request no route matched
func RouteNotFound(method, uri string) error {
	return ErrRouteNotFound.
		WithMessage(fmt.Sprintf("Route %s %s not found", method, uri)).
		WithDetail("method", method)
}

// LoginConflict returns a conflict error for an already registered login
func LoginConflict(login string) error {
	return ErrDuplicateLogin.
		WithMessage(fmt.Sprintf("User with login %s already exists", login)).
		WithDetail("login", login)
}

// InvalidRole returns a validation error for a role outside the known set
func InvalidRole(role string) error {
	return ErrInvalidRole.
		WithMessage(fmt.Sprintf("Role %s is not valid", role)).
		WithDetail("role", role)
}

// InvalidPeriod returns a validation error for an unusable date range
func InvalidPeriod(message string) error {
	return ErrInvalidPeriod.WithMessage(message)
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorMessage returns the client-facing message of a domain error, or empty string
func GetErrorMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// NewValidationError builds a validation error carrying a client-facing message
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, nil)
}
