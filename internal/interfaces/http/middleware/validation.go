package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator configures the validator with custom tags
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// ValidationDetails converts validator errors and JSON type mismatches into field details.
// Errors of any other kind yield nil.
func ValidationDetails(err error) []shared.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []shared.FieldError{{Field: typeErr.Field, Message: typeMismatchMessage(typeErr)}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make([]shared.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, shared.FieldError{
			Field:   fieldPath(e),
			Message: getValidationMessage(e),
		})
	}
	return details
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	return dto.NewValidationErrorResponse("Request validation failed", requestID, ValidationDetails(err))
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(RequestIDContextKey)))
}

// fieldPath drops the top-level struct name: "CreateOrderRequest.customer.name" becomes "customer.name"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return e.Field()
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// typeMismatchMessage describes the JSON type the field expects
func typeMismatchMessage(e *json.UnmarshalTypeError) string {
	if e.Type == nil {
		return "Invalid value"
	}
	if e.Type == decimalType {
		return "Must be a number"
	}
	switch e.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if strings.HasPrefix(e.Value, "number") {
			return "Must be a whole number"
		}
		return "Must be a number"
	case reflect.Float32, reflect.Float64:
		return "Must be a number"
	case reflect.String:
		return "Must be a string"
	case reflect.Bool:
		return "Must be true or false"
	case reflect.Slice, reflect.Array:
		return "Must be a list"
	case reflect.Struct, reflect.Map, reflect.Pointer:
		return "Must be an object"
	default:
		return "Invalid value"
	}
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Type().Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " item(s)"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "url":
		return "Invalid URL format"
	case "numeric":
		return "Must be numeric"
	default:
		return "Invalid value"
	}
}
