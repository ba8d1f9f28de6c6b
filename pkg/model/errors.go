package model

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrElementNotFound  = errors.New("element not found")
	ErrDuplicateElement = errors.New("duplicate element ID")
	ErrInvalidID        = errors.New("invalid element ID")
	ErrKindMismatch     = errors.New("element kind mismatch")
	ErrRelationExists   = errors.New("relation already exists")
)

// ModelError provides structured error information for model operations.
type ModelError struct {
	Op      string // Operation that failed (e.g., "AddElement", "LinkFill")
	Entity  string // Entity type (e.g., "element", "relation")
	ID      string // Element ID (if applicable)
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	if e.ID != "" {
		if e.Context != "" {
			return fmt.Sprintf("%s %s %s (%s): %v", e.Op, e.Entity, e.ID, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *ModelError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building ModelErrors.
type ErrorBuilder struct {
	err ModelError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: ModelError{Op: op}}
}

// Element sets the entity to "element" with the given ID.
func (b *ErrorBuilder) Element(id string) *ErrorBuilder {
	b.err.Entity = "element"
	b.err.ID = id
	return b
}

// Relation sets the entity to "relation".
func (b *ErrorBuilder) Relation() *ErrorBuilder {
	b.err.Entity = "relation"
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// ElementNotFoundError creates an element not found error.
func ElementNotFoundError(id string) error {
	return NewError("get").Element(id).Cause(ErrElementNotFound).Err()
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}
