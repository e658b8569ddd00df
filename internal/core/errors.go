package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors
	ErrNoData           = &Error{Code: "NO_DATA", Message: "no candle data available"}
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "not enough bars for the requested windows"}
	ErrBadCandles       = &Error{Code: "BAD_CANDLES", Message: "candle series failed validation"}

	// Engine errors
	ErrLeakage     = &Error{Code: "LEAKAGE", Message: "signal range overlaps future-relative train range"}
	ErrBadRange    = &Error{Code: "BAD_RANGE", Message: "index range out of bounds"}
	ErrEmptyGrid   = &Error{Code: "EMPTY_GRID", Message: "parameter grid has no combinations"}
	ErrNoWindows   = &Error{Code: "NO_WINDOWS", Message: "history too short for a single walk-forward window"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Report errors
	ErrStorageFailed = &Error{Code: "STORAGE_FAILED", Message: "report storage failed"}
	ErrNarrateFailed = &Error{Code: "NARRATE_FAILED", Message: "report narration failed"}
)
