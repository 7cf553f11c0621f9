package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContact struct {
	Name  string `json:"name" binding:"required,max=10"`
	Email string `json:"email" binding:"omitempty,email"`
}

type testCheckout struct {
	Contact testContact `json:"contact"`
	Items   []string    `json:"items" binding:"min=1"`
	Status  string      `json:"status" binding:"omitempty,oneof=pending completed"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/checkout", func(c *gin.Context) {
		var req testCheckout
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	body := `{"contact":{"name":"","email":"nope"},"items":[],"status":"lost"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	messages := make(map[string]string)
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", messages["contact.name"])
	assert.Equal(t, "Invalid email format", messages["contact.email"])
	assert.Equal(t, "Must contain at least 1 item(s)", messages["items"])
	assert.Equal(t, "Must be one of: pending completed", messages["status"])
}

func TestHandleValidationError_PassesValidBody(t *testing.T) {
	router := newValidationRouter()

	body := `{"contact":{"name":"Ama"},"items":["scarf"]}`
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidationDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
}

func TestFormatValidationErrors_CarriesRequestID(t *testing.T) {
	resp := FormatValidationErrors(errors.New("boom"), "req-7")

	assert.False(t, resp.Success)
	assert.Equal(t, "req-7", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}

func TestValidationDetails_TypeMismatch(t *testing.T) {
	type line struct {
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	}
	type payload struct {
		Contact testContact `json:"contact"`
		Items   []string    `json:"items"`
		Line    line        `json:"line"`
	}

	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"fraction for integer", `{"line":{"quantity":1.5}}`, "line.quantity", "Must be a whole number"},
		{"string for integer", `{"line":{"quantity":"two"}}`, "line.quantity", "Must be a number"},
		{"string for float", `{"line":{"price":"abc"}}`, "line.price", "Must be a number"},
		{"number for string", `{"contact":{"name":5}}`, "contact.name", "Must be a string"},
		{"string for list", `{"items":"scarf"}`, "items", "Must be a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := json.Unmarshal([]byte(tt.body), &p)
			require.Error(t, err)

			details := ValidationDetails(err)
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].Field)
			assert.Equal(t, tt.message, details[0].Message)
		})
	}
}

func TestHandleValidationError_TypeMismatch(t *testing.T) {
	router := newValidationRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"contact":{"name":"Ama"},"items":7}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "items", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be a list", resp.Error.Details[0].Message)
}
