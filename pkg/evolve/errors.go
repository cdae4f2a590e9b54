package evolve

import (
	"fmt"
)

// Error codes for run failures.
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidFilter     = "INVALID_FILTER"
	ErrCodeSourceUnparseable = "SOURCE_UNPARSEABLE"
	ErrCodeNameCollision     = "NAME_COLLISION"
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

// ErrInvalidJSON wraps a JSON decode failure of the sampled input.
func ErrInvalidJSON(err error) error {
	return &CodedError{Code: ErrCodeInvalidJSON, Message: "input is not valid JSON", Cause: err}
}
