/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an indexed lookup finds no entity
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when a name is registered twice
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrIndexMismatch is returned when a live index differs from its declaration
	ErrIndexMismatch = errors.New("secondary index mismatch")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IndexMismatchError reports a same-named live index whose key schema
// differs from the declared one.
type IndexMismatchError struct {
	Table string
	Index string
	Want  string
	Got   string
}

func (e *IndexMismatchError) Error() string {
	return fmt.Sprintf("index %q on table %q has key schema %s, declared %s", e.Index, e.Table, e.Got, e.Want)
}

func (e *IndexMismatchError) Is(target error) bool {
	return target == ErrIndexMismatch
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewIndexMismatchError creates a new IndexMismatchError
func NewIndexMismatchError(table, index, want, got string) error {
	return &IndexMismatchError{Table: table, Index: index, Want: want, Got: got}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsIndexMismatch checks if an error is an index mismatch error
func IsIndexMismatch(err error) bool {
	return errors.Is(err, ErrIndexMismatch)
}

// IsConditionFailed reports whether err is a failed conditional write.
// Create surfaces the store's ConditionalCheckFailedException unwrapped,
// so both the native exception and ErrConditionFailed are recognised.
func IsConditionFailed(err error) bool {
	if errors.Is(err, ErrConditionFailed) {
		return true
	}
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
