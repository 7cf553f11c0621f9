package dto

// APIResponse documents Response with a typed data field
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorResponse documents a failed Response
// @Description Standard error response
type ErrorResponse struct {
	Success bool       `json:"success" example:"false"`
	Error   *ErrorInfo `json:"error,omitempty"`
}
