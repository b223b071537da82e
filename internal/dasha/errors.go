package dasha

import (
	"errors"
	"fmt"
)

// InputError reports an input rejected before any tree construction.
//
// Build never returns a partial schedule alongside an InputError.
type InputError struct {
	// Code identifies the error category.
	Code InputErrorCode

	// Field names the offending input.
	Field string

	// Message is a human-readable description.
	Message string
}

// InputErrorCode categorizes input errors.
type InputErrorCode string

const (
	// ErrCodeInvalidReference indicates a missing reference instant.
	ErrCodeInvalidReference InputErrorCode = "INVALID_REFERENCE"

	// ErrCodeInvalidLord indicates a start lord outside the cycle.
	ErrCodeInvalidLord InputErrorCode = "INVALID_LORD"

	// ErrCodeInvalidFraction indicates an elapsed fraction outside [0,1).
	ErrCodeInvalidFraction InputErrorCode = "INVALID_FRACTION"

	// ErrCodeInvalidHorizon indicates a non-positive or unrepresentable horizon.
	ErrCodeInvalidHorizon InputErrorCode = "INVALID_HORIZON"

	// ErrCodeInvalidYearLength indicates a non-positive or oversized year length.
	ErrCodeInvalidYearLength InputErrorCode = "INVALID_YEAR_LENGTH"

	// ErrCodeInvalidLongitude indicates a longitude outside [0,360).
	ErrCodeInvalidLongitude InputErrorCode = "INVALID_LONGITUDE"
)

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newInputError(code InputErrorCode, field, format string, args ...any) *InputError {
	return &InputError{
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsInputError returns true if err is or wraps an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// InputErrorCodeOf returns the code of a wrapped InputError, or "" if none.
func InputErrorCodeOf(err error) InputErrorCode {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// InvariantError reports a structural defect found by Verify.
type InvariantError struct {
	// Path locates the node, e.g. "major[2].sub[4]".
	Path string

	// Rule names the violated invariant (tiling, rotation, succession, horizon, level).
	Rule string

	// Detail describes the violation.
	Detail string
}

func (e *InvariantError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Detail)
	}
	return fmt.Sprintf("%s at %s: %s", e.Rule, e.Path, e.Detail)
}
