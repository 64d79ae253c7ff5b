package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Voyage pipeline errors.
type ErrorCode string

// Extraction error codes
const (
	EXTRACTION_AMBIGUOUS ErrorCode = "EXTRACTION_AMBIGUOUS"
	EXTRACTION_EMPTY     ErrorCode = "EXTRACTION_EMPTY"
)

// Research and tool error codes
const (
	TOOL_NOT_FOUND        ErrorCode = "TOOL_NOT_FOUND"
	TOOL_ALREADY_EXISTS   ErrorCode = "TOOL_ALREADY_EXISTS"
	TOOL_INVALID_INPUT    ErrorCode = "TOOL_INVALID_INPUT"
	TOOL_UNAVAILABLE      ErrorCode = "TOOL_UNAVAILABLE"
	TOOL_TIMEOUT          ErrorCode = "TOOL_TIMEOUT"
	TOOL_EXECUTION_FAILED ErrorCode = "TOOL_EXECUTION_FAILED"
)

// Validation and planning error codes
const (
	VALIDATION_INSUFFICIENT ErrorCode = "VALIDATION_INSUFFICIENT"
	PLANNING_INFEASIBLE     ErrorCode = "PLANNING_INFEASIBLE"
	EXECUTION_DEGRADED      ErrorCode = "EXECUTION_DEGRADED"
)

// Narrative provider error codes
const (
	LLM_PROVIDER_UNKNOWN  ErrorCode = "LLM_PROVIDER_UNKNOWN"
	LLM_GENERATION_FAILED ErrorCode = "LLM_GENERATION_FAILED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Storage error codes
const (
	STORE_OPEN_FAILED      ErrorCode = "STORE_OPEN_FAILED"
	STORE_MIGRATION_FAILED ErrorCode = "STORE_MIGRATION_FAILED"
	STORE_QUERY_FAILED     ErrorCode = "STORE_QUERY_FAILED"
	TRIP_NOT_FOUND         ErrorCode = "TRIP_NOT_FOUND"
	PLAN_NOT_FOUND         ErrorCode = "PLAN_NOT_FOUND"
)

// VoyageError is a structured error carrying a code, message, and optional
// cause. Retryable marks failures that may succeed when re-attempted, such as
// a single research tool timing out.
type VoyageError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" when a cause exists.
func (e *VoyageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *VoyageError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, enabling errors.Is across wrapped chains.
func (e *VoyageError) Is(target error) bool {
	var ve *VoyageError
	if errors.As(target, &ve) {
		return e.Code == ve.Code
	}
	return false
}

// NewError creates a non-retryable VoyageError.
func NewError(code ErrorCode, message string) *VoyageError {
	return &VoyageError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a retryable VoyageError. Use for transient
// failures such as tool timeouts.
func NewRetryableError(code ErrorCode, message string) *VoyageError {
	return &VoyageError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a non-retryable VoyageError wrapping an existing error.
func WrapError(code ErrorCode, message string, cause error) *VoyageError {
	return &VoyageError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from err, or the empty code when err does not
// carry one.
func CodeOf(err error) ErrorCode {
	var ve *VoyageError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// IsRetryable reports whether err carries a retryable VoyageError.
func IsRetryable(err error) bool {
	var ve *VoyageError
	if errors.As(err, &ve) {
		return ve.Retryable
	}
	return false
}
