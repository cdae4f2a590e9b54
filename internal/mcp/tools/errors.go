package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/json2go/pkg/evolve"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRunFailed    = "RUN_FAILED"
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

// WrapRunError converts an evolve error into a coded error, keeping the
// engine's more specific code when it carries one.
func WrapRunError(err error) error {
	if err == nil {
		return nil
	}

	coded := &CodedError{Code: ErrCodeRunFailed, Message: err.Error(), Cause: err}
	var engineErr *evolve.CodedError
	if errors.As(err, &engineErr) {
		coded = &CodedError{Code: engineErr.Code, Message: engineErr.Message, Cause: err}
	}

	slog.Warn("run error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
