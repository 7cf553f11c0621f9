package dto

import "github.com/clothstore/backend/internal/domain/shared"

// Response represents the standard API envelope
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Details   []shared.FieldError `json:"details,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

// Meta carries list metadata
type Meta struct {
	Total int64 `json:"total"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewListResponse creates a success response carrying the item count
func NewListResponse(data any, total int) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: int64(total)},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a 400 body listing every invalid field
func NewValidationErrorResponse(message, requestID string, details []shared.FieldError) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	}
}

// MessageResponse is the body of endpoints that only acknowledge an action
type MessageResponse struct {
	Message string `json:"message"`
}
