package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAppErrorError(t *testing.T) {
	e := NewAppError(CodeInternal, "boom", nil)
	if got := e.Error(); got != "INTERNAL: boom" {
		t.Errorf("Error() = %q", got)
	}
	e = NewAppError(CodeInternal, "boom", fmt.Errorf("root"))
	if got := e.Error(); got != "INTERNAL: boom: root" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	root := fmt.Errorf("root cause")
	e := InvalidInputError("bad upload", root)
	if !errors.Is(e, root) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestAppErrorIsMatchesSentinels(t *testing.T) {
	if !errors.Is(InvalidInputError("bad", nil), ErrInvalidInput) {
		t.Error("invalid-input AppError should match ErrInvalidInput")
	}
	if errors.Is(InvalidInputError("bad", nil), ErrInternal) {
		t.Error("invalid-input AppError should not match ErrInternal")
	}
	if !errors.Is(NewAppError(CodeInternal, "boom", nil), ErrInternal) {
		t.Error("internal AppError should match ErrInternal")
	}
}

func TestHTTPErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", InvalidInputError("bad upload", nil), http.StatusBadRequest},
		{"wrapped invalid input", fmt.Errorf("outer: %w", InvalidInputError("bad", nil)), http.StatusBadRequest},
		{"internal app error", NewAppError(CodeInternal, "boom", nil), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *echo.HTTPError
			if !errors.As(HTTPError(tt.err), &httpErr) {
				t.Fatal("HTTPError did not return an echo HTTP error")
			}
			if httpErr.Code != tt.code {
				t.Errorf("code = %d, want %d", httpErr.Code, tt.code)
			}
		})
	}
}

func TestHTTPErrorHidesInternalDetail(t *testing.T) {
	var httpErr *echo.HTTPError
	if !errors.As(HTTPError(fmt.Errorf("pg password was hunter2")), &httpErr) {
		t.Fatal("HTTPError did not return an echo HTTP error")
	}
	if httpErr.Message != "internal error" {
		t.Errorf("message = %v, want opaque internal error", httpErr.Message)
	}
}
