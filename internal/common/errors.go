package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes attached to AppError values.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeInternal     = "INTERNAL"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel corresponding to the error's code, so callers
// can branch with errors.Is without inspecting codes.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Code == CodeInvalidInput
	case ErrInternal:
		return e.Code == CodeInternal
	}
	return false
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// NewAppError builds an AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// InvalidInputError builds an AppError the HTTP layer maps to 400.
func InvalidInputError(message string, cause error) *AppError {
	return NewAppError(CodeInvalidInput, message, cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTP error helpers

func BadRequestError(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

func BadRequestErrorf(format string, args ...interface{}) error {
	return BadRequestError(fmt.Sprintf(format, args...))
}

func InternalError(message string) error {
	return echo.NewHTTPError(http.StatusInternalServerError, message)
}

// HTTPError maps an application error onto an echo HTTP error:
// invalid-input AppErrors become 400 with their message, everything else
// becomes an opaque 500.
func HTTPError(err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) && errors.Is(appErr, ErrInvalidInput) {
		return BadRequestError(appErr.Message)
	}
	return InternalError("internal error")
}
