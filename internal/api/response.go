package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/service"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error sends a JSON error response.
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// mapServiceError translates a service error into the matching HTTP
// response. Unrecognized errors become a generic 500.
func mapServiceError(c echo.Context, err error) error {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		return Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(svcErr, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(svcErr, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(svcErr, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(svcErr, service.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(svcErr, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(svcErr, service.ErrGone):
		status = http.StatusGone
	}

	return Error(c, status, svcErr.Code, svcErr.Message)
}
