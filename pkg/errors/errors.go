package errors

import (
	"errors"
	"fmt"
)

// Application error taxonomy. Every business-rule failure maps to exactly one
// of these sentinels so the HTTP boundary can translate it to a stable status
// without leaking internal detail.

var (
	// ErrUnauthenticated indicates a missing, malformed, expired or revoked token
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the caller is authenticated but lacks permission for this entity
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or invalid input data
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition indicates a request state-machine violation
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrRoleViolation indicates the wrong role for an operation
	ErrRoleViolation = errors.New("role violation")

	// ErrUnsupportedMediaType indicates an image type outside the allow-list
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrConflict indicates a conflict with existing data
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials indicates a failed login attempt
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// ForbiddenError creates a forbidden error with context
func ForbiddenError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrForbidden)
	}
	return ErrForbidden
}

// ValidationError creates a validation error with context
func ValidationError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrValidation)
}

// InvalidTransitionError creates a state-machine violation error with context
func InvalidTransitionError(from, to string) error {
	return fmt.Errorf("cannot move request from %s to %s: %w", from, to, ErrInvalidTransition)
}

// RoleViolationError creates a role violation error with context
func RoleViolationError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrRoleViolation)
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Kind returns the stable machine-readable kind for an error. The HTTP
// boundary includes it in every failure response.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrRoleViolation):
		return "role_violation"
	case errors.Is(err, ErrUnsupportedMediaType):
		return "unsupported_media_type"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "internal_error"
	}
}
