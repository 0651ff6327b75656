package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents internal error codes for alignment runs
type ErrorCode int

const (
	// Success
	ErrCodeOK ErrorCode = 0

	// Caller errors
	ErrCodeInvalidConfig ErrorCode = 1000
	ErrCodeInputFailed   ErrorCode = 1001
	ErrCodeInvalidInput  ErrorCode = 1002

	// Run errors
	ErrCodeInternal              ErrorCode = 2000
	ErrCodeInternalInconsistency ErrorCode = 2001
	ErrCodeOutputFailed          ErrorCode = 2002
)

// AlignerError represents a structured error with code and context
type AlignerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *AlignerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AlignerError) Unwrap() error {
	return e.Cause
}

// ExitCode maps the error code to a process exit status
func (e *AlignerError) ExitCode() int {
	switch e.Code {
	case ErrCodeOK:
		return 0
	case ErrCodeInvalidConfig, ErrCodeInvalidInput:
		return 2
	case ErrCodeInputFailed, ErrCodeOutputFailed:
		return 3
	case ErrCodeInternal, ErrCodeInternalInconsistency:
		return 4
	default:
		return 1
	}
}

// NewAlignerError creates a new AlignerError
func NewAlignerError(code ErrorCode, message string, cause error) *AlignerError {
	return &AlignerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Cause:   cause,
	}
}

// WithDetail adds a detail to the error
func (e *AlignerError) WithDetail(key string, value interface{}) *AlignerError {
	e.Details[key] = value
	return e
}

// Convenience constructors for common errors

func InvalidConfig(message string) *AlignerError {
	return NewAlignerError(ErrCodeInvalidConfig, message, nil)
}

func WindowTooLong(name string, width, shortest int) *AlignerError {
	return NewAlignerError(ErrCodeInvalidConfig,
		fmt.Sprintf("%s=%d exceeds shortest segment length %d", name, width, shortest), nil).
		WithDetail(name, width).
		WithDetail("shortest_segment", shortest)
}

func InvalidPartitions(partitions, reads int) *AlignerError {
	return NewAlignerError(ErrCodeInvalidConfig,
		fmt.Sprintf("partition count %d must be between 1 and the read count %d", partitions, reads), nil).
		WithDetail("partitions", partitions).
		WithDetail("reads", reads)
}

func InvalidSequence(id string, position int, base byte) *AlignerError {
	return NewAlignerError(ErrCodeInvalidInput,
		fmt.Sprintf("sequence %q has non-nucleotide %q at position %d", id, base, position), nil).
		WithDetail("id", id).
		WithDetail("position", position)
}

func InternalInconsistency(message string, segment, position int) *AlignerError {
	return NewAlignerError(ErrCodeInternalInconsistency,
		fmt.Sprintf("%s at segment %d position %d", message, segment, position), nil).
		WithDetail("segment", segment).
		WithDetail("position", position)
}

func InputFailed(path string, cause error) *AlignerError {
	return NewAlignerError(ErrCodeInputFailed, fmt.Sprintf("failed to read %s", path), cause).
		WithDetail("path", path)
}

func OutputFailed(path string, cause error) *AlignerError {
	return NewAlignerError(ErrCodeOutputFailed, fmt.Sprintf("failed to write %s", path), cause).
		WithDetail("path", path)
}

func InternalError(message string, cause error) *AlignerError {
	return NewAlignerError(ErrCodeInternal, message, cause)
}

// IsAlignerError checks if an error is, or wraps, an AlignerError
func IsAlignerError(err error) bool {
	var ae *AlignerError
	return errors.As(err, &ae)
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var ae *AlignerError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeInternal
}

// ExitCode returns the process exit status for err
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ae *AlignerError
	if errors.As(err, &ae) {
		return ae.ExitCode()
	}
	return 1
}
