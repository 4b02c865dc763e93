package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response wrapper: a success flag, a human-readable
// message, and the typed payload.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Success: false, Message: message})
}
