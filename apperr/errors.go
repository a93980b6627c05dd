// Package apperr defines the failure kinds the request pipeline can raise.
// Every stage returns one of these (or wraps one) and the error handler in
// the middleware package turns it into exactly one HTTP response.
package apperr

import (
	"fmt"
	"strings"
)

// Violation names a field and the constraint it broke.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

// ValidationError carries every violation found in a payload, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Constraint)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AuthenticationError is a missing, invalid or unresolvable credential.
// Forbidden marks a valid caller acting on something that is not theirs.
type AuthenticationError struct {
	Reason    string
	Forbidden bool
	Err       error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Unauthenticated builds a 401-class AuthenticationError.
func Unauthenticated(reason string, err error) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Err: err}
}

// Forbidden builds a 403-class AuthenticationError.
func Forbidden(reason string) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Forbidden: true}
}

// NotFoundError reports an absent entity by the identifier it was asked for.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a uniqueness clash, e.g. an email already registered.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// PersistenceError is a store-level failure. Retryable is set when the
// operation may have been partially applied and is safe to re-issue.
type PersistenceError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a non-retryable PersistenceError.
func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// PartiallyApplied wraps err as a retryable PersistenceError.
func PartiallyApplied(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Retryable: true, Err: err}
}
