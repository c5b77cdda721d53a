package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/prisma-infer/internal/source"
	"github.com/usestring/prisma-infer/pkg/prisma"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInferenceError = "INFERENCE_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// inputErrors are failures caused by what the caller sent.
var inputErrors = []error{
	prisma.ErrNotArray,
	prisma.ErrInvalidJSON,
	prisma.ErrInvalidYAML,
	source.ErrTooLarge,
	source.ErrUnsupportedFormat,
	source.ErrSelect,
}

// WrapInferenceError converts a failure of the decode, select or infer steps
// into a coded error.
func WrapInferenceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	code := ErrCodeInferenceError
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			code = ErrCodeInvalidInput
			break
		}
	}
	coded = &CodedError{
		Code:    code,
		Message: "failed to generate schema",
		Cause:   err,
	}

	slog.Warn("inference failed",
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)
	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
