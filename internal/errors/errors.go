package errors

import (
	stderrors "errors"
	"fmt"
)

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeIOError          = "IO_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// AppError carries a stable code for the CLI next to the human message.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Wrap adds message to err. The code of an AppError anywhere in the chain is
// kept; anything else becomes INTERNAL_ERROR.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	if app, ok := asAppError(err); ok {
		code = app.Code
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// WithCode relabels err with code, keeping its message and cause.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if app, ok := err.(*AppError); ok {
		return &AppError{Code: code, Message: app.Message, Cause: app.Cause}
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// IsAppError reports whether err or anything it wraps is an AppError.
func IsAppError(err error) bool {
	_, ok := asAppError(err)
	return ok
}

// GetCode returns the code of the outermost AppError in the chain, or "UNKNOWN".
func GetCode(err error) string {
	if app, ok := asAppError(err); ok {
		return app.Code
	}
	return "UNKNOWN"
}

func asAppError(err error) (*AppError, bool) {
	var app *AppError
	if stderrors.As(err, &app) {
		return app, true
	}
	return nil, false
}

func ConfigInvalid(message string) *AppError {
	return &AppError{Code: CodeConfigInvalid, Message: message}
}

func InvalidInput(message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message}
}

func InsufficientData(message string) *AppError {
	return &AppError{Code: CodeInsufficientData, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

// IOError wraps a failed read or write of path
func IOError(path string, cause error) *AppError {
	return &AppError{Code: CodeIOError, Message: "i/o on " + path, Cause: cause}
}
