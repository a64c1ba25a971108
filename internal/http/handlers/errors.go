// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain codes name failures the status alone cannot convey. Clients are
// expected to branch on these codes.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeValidation  = "validation_failed"
	ErrCodeNotFound    = "not_found"
	ErrCodeTooLarge    = "payload_too_large"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"
	ErrCodeUnavailable = "service_unavailable"

	// Domain-specific:
	ErrCodeGenerationFailed = "generation_failed"
	ErrCodeNoData           = "no_data"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
