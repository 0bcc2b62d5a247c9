package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain.
// The generation pipeline's rejection taxonomy lives in this code space so
// every discarded candidate can be classified and counted.
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Rejection reasons for generated candidates
	ErrParseError       ErrorCode = "PARSE_ERROR"
	ErrNoJSONFound      ErrorCode = "NO_JSON_FOUND"
	ErrInvalidStructure ErrorCode = "INVALID_STRUCTURE"
	ErrMissingFields    ErrorCode = "MISSING_FIELDS"
	ErrAPIError         ErrorCode = "API_ERROR"
	ErrTimeout          ErrorCode = "TIMEOUT"
	ErrAnswerInQuestion ErrorCode = "ANSWER_IN_QUESTION"
	ErrDuplicate        ErrorCode = "DUPLICATE"
)

// RejectionReasons lists every code a candidate can be discarded under,
// in reporting order.
var RejectionReasons = []ErrorCode{
	ErrParseError,
	ErrNoJSONFound,
	ErrInvalidStructure,
	ErrMissingFields,
	ErrAPIError,
	ErrTimeout,
	ErrAnswerInQuestion,
	ErrDuplicate,
}

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the ErrorCode from an error chain. Errors that are not
// DomainErrors classify as INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrInternal
}

// Helper functions for common errors

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewGenerationAPIError(err error) *DomainError {
	return NewError(ErrAPIError, "generation provider request failed", err)
}

func NewGenerationTimeoutError(err error) *DomainError {
	return NewError(ErrTimeout, "generation provider request timed out", err)
}

func NewNoJSONFoundError(message string) *DomainError {
	return NewError(ErrNoJSONFound, message, nil)
}

func NewInvalidStructureError(message string) *DomainError {
	return NewError(ErrInvalidStructure, message, nil)
}

func NewMissingFieldsError(missing []string) *DomainError {
	return NewError(ErrMissingFields, fmt.Sprintf("generation response missing fields: %v", missing), nil)
}
