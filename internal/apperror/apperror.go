// Package apperror defines the typed errors returned across the service boundary.
package apperror

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced record does not exist (or is not
// visible to the acting user).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// AuthorizationError reports that a record exists but belongs to another user.
// Its message is identical to NotFoundError so callers that surface the text
// never reveal whether the record exists.
type AuthorizationError struct {
	Resource string
	ID       string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError names the offending promise (by text) and field.
type ValidationError struct {
	Promise string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Promise == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid promise %q: %s %s", e.Promise, e.Field, e.Reason)
}

// ConsistencyError is the single aggregate failure of a rolled-back transaction.
type ConsistencyError struct {
	Op  string
	Err error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s rolled back: %v", e.Op, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }

// NotFound is shorthand for &NotFoundError{...}.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Forbidden is shorthand for &AuthorizationError{...}.
func Forbidden(resource, id string) error {
	return &AuthorizationError{Resource: resource, ID: id}
}

// Invalid is shorthand for &ValidationError{...}.
func Invalid(promise, field, reason string) error {
	return &ValidationError{Promise: promise, Field: field, Reason: reason}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAuthorization reports whether err wraps an AuthorizationError.
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsHidden reports whether err should be shown to a user as "not found":
// both missing and foreign records qualify.
func IsHidden(err error) bool {
	return IsNotFound(err) || IsAuthorization(err)
}
