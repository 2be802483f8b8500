package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
)

// ValidationError is a field-level rule violation. Caller-correctable.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError is a uniqueness violation on a business key (isbn,
// category name, author name pair, username).
type ConflictError struct {
	Entity string `json:"entity"`
	Field  string `json:"field"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

func NewConflictError(entity, field string) *ConflictError {
	return &ConflictError{Entity: entity, Field: field}
}

// IntegrityError is a delete blocked by protected back-references
// (author<-book, book<-loan, user<-loan).
type IntegrityError struct {
	Entity string `json:"entity"`
	Ref    string `json:"ref"`
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s is referenced by %s and cannot be deleted", e.Entity, e.Ref)
}

func NewIntegrityError(entity, ref string) *IntegrityError {
	return &IntegrityError{Entity: entity, Ref: ref}
}
