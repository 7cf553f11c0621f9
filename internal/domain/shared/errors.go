package shared

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that errors carrying details still
// compare equal to the sentinel they were derived from.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a different message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Details: e.Details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying field-level messages
func NewValidationError(details []FieldError) *DomainError {
	return &DomainError{
		Code:    ErrValidation.Code,
		Message: ErrValidation.Message,
		Details: details,
	}
}

// Common domain errors
var (
	ErrValidation          = NewDomainError("VALIDATION_ERROR", "Validation failed")
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidStatus       = NewDomainError("INVALID_STATUS", "Invalid status")
	ErrInvalidTransition   = NewDomainError("INVALID_STATUS_TRANSITION", "Status transition not allowed")
	ErrDuplicateIdentifier = NewDomainError("DUPLICATE_IDENTIFIER", "Identifier already exists")
	ErrIdentifierExhausted = NewDomainError("IDENTIFIER_EXHAUSTED", "Could not allocate a unique identifier")
	ErrStoreUnavailable    = NewDomainError("STORE_UNAVAILABLE", "Data store is temporarily unavailable")
	ErrDeliveryFailed      = NewDomainError("DELIVERY_FAILED", "Failed to send message. Please try again later.")
)
