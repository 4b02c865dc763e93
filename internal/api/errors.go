package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"TrendScanner/internal/domain"
)

// ValidationError marks caller mistakes that map to HTTP 400.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidation builds a plain validation error.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewValidationWrap builds a validation error keeping its cause.
func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ErrorHandler maps domain and validation errors onto the response envelope.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = fail(c, http.StatusBadRequest, ve.Message)
			return
		}

		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			_ = fail(c, http.StatusConflict, conflict.Error())
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = fail(c, he.Code, fmt.Sprintf("%v", he.Message))
			return
		}

		logger.Error("unhandled error", "error", err)
		_ = fail(c, http.StatusInternalServerError, err.Error())
	}
}
