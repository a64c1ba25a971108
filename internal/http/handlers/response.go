// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints:
// the error envelope, JSON success helpers and the mapping from service errors
// to HTTP status codes.
//
// Conventions:
//   - All error responses return an ErrorResponse with status "error" and a
//     stable `code`.
//   - `fail()` centralizes error logging and formatting; 5xx responses are
//     logged with the request-scoped logger.
//   - `serviceError()` translates service sentinels so handlers never pick
//     status codes for domain failures themselves.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "status": "error",
//	  "code": "not_found",
//	  "message": "question not found for user"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/http/middleware"
	"github.com/tbourn/go-health-assistant/internal/services"
)

// StatusError is the status field of every error envelope.
const StatusError = "error"

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: correlation id, echoed from X-Request-ID.
//   - Status: always "error".
//   - Code: a stable, machine-readable string (see errors.go constants).
//   - Message: a human-readable description, safe for display to users.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Always "error"
	Status string `json:"status" example:"error"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"question not found for user"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Status:    StatusError,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// serviceError maps a service error onto the envelope. Unknown errors become
// 500 internal_error.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, services.ErrQuestionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "question not found for user")
	case errors.Is(err, services.ErrNoReportData):
		fail(c, http.StatusNotFound, ErrCodeNoData, "no questions in the requested range")
	case errors.Is(err, services.ErrGenerationFailed):
		fail(c, http.StatusBadGateway, ErrCodeGenerationFailed, err.Error())
	case errors.Is(err, services.ErrLockTimeout):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "question generation is busy, retry later")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
