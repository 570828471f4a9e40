// Package apperrors defines the typed error taxonomy shared by services and
// handlers. Services return these; the HTTP boundary maps them to status
// codes with errors.As. Anything else is treated as an internal error.
package apperrors

import "fmt"

// ValidationError means the request violates a business precondition.
// Nothing has been mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AuthorizationError means the actor lacks the role or relationship
// required for the operation.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// Forbidden builds an AuthorizationError from a format string.
func Forbidden(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError means a state transition was attempted from a state that
// does not permit it (e.g. deciding a workflow that already left pending).
// No partial state change has occurred.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// Conflict builds a ConflictError from a format string.
func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// DuplicateError means a uniqueness constraint (asset tag, serial number,
// email) would be violated.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Field, e.Value)
}

// Duplicate builds a DuplicateError for the given field and value.
func Duplicate(field, value string) *DuplicateError {
	return &DuplicateError{Field: field, Value: value}
}
