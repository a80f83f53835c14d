package model

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every OutOfRangeError via errors.Is
var ErrOutOfRange = errors.New("index out of range")

// OutOfRangeError represents an item index outside the current line list
type OutOfRangeError struct {
	Op     string
	Index  int
	Length int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Index, e.Length)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// NewOutOfRangeError creates a new out-of-range error
func NewOutOfRangeError(op string, index, length int) *OutOfRangeError {
	return &OutOfRangeError{
		Op:     op,
		Index:  index,
		Length: length,
	}
}

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// InputError wraps a rejected draft input
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid draft input: %s (%v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid draft input: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// NewInputError creates a new input error
func NewInputError(message string, cause error) *InputError {
	return &InputError{
		Message: message,
		Cause:   cause,
	}
}
