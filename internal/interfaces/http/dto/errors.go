package dto

import "net/http"

// Domain error codes rendered to clients. They match shared.DomainError codes.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
	ErrCodeIdentifierExhausted = "IDENTIFIER_EXHAUSTED"
	ErrCodeStoreUnavailable    = "STORE_UNAVAILABLE"
	ErrCodeDeliveryFailed      = "DELIVERY_FAILED"
)

// Transport error codes with no domain counterpart
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeInvalidStatus:       http.StatusBadRequest,
	ErrCodeInvalidTransition:   http.StatusConflict,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeDuplicateIdentifier: http.StatusConflict,
	ErrCodeIdentifierExhausted: http.StatusInternalServerError,
	ErrCodeStoreUnavailable:    http.StatusServiceUnavailable,
	ErrCodeDeliveryFailed:      http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
