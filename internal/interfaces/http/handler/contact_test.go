package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/clothstore/backend/internal/application/contact"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactHandler_Send(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/contact/send", map[string]string{
		"name":    "Ayesha",
		"email":   "ayesha@example.com",
		"message": "Do you ship to Karachi?",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[contact.SendResult](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Message sent successfully! Check your email for confirmation.", resp.Data.Message)
	assert.Equal(t, "<msg-1@clothstore.test>", resp.Data.MessageID)

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "Ayesha - ayesha@example.com - Do you ship to Karachi?", env.mailer.sent[0].Body)
	assert.Equal(t, "ayesha@example.com", env.mailer.sent[0].ReplyTo)
}

func TestContactHandler_Send_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    any
		message string
		fields  []string
	}{
		{
			name:    "empty body",
			body:    map[string]string{},
			message: "All fields are required",
			fields:  []string{"name", "email", "message"},
		},
		{
			name:    "blank message",
			body:    map[string]string{"name": "Bilal", "email": "bilal@example.com", "message": "   "},
			message: "All fields are required",
			fields:  []string{"message"},
		},
		{
			name:    "malformed email",
			body:    map[string]string{"name": "Bilal", "email": "bilal-at-example", "message": "Hi"},
			message: "Validation failed",
			fields:  []string{"email"},
		},
		{
			name:    "numeric name",
			body:    map[string]any{"name": 7, "email": "bilal@example.com", "message": "Hi"},
			message: "Request validation failed",
			fields:  []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/contact/send", tt.body, "")
			errInfo := requireError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
			assert.Equal(t, tt.message, errInfo.Message)

			got := make([]string, 0, len(errInfo.Details))
			for _, d := range errInfo.Details {
				got = append(got, d.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}

	assert.Empty(t, env.mailer.sent, "invalid submissions must not be relayed")
}

func TestContactHandler_Send_DeliveryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("dial tcp: connection refused")

	w := env.do(t, http.MethodPost, "/api/v1/contact/send", map[string]string{
		"name":    "Ayesha",
		"email":   "ayesha@example.com",
		"message": "Hello",
	}, "")
	errInfo := requireError(t, w, http.StatusInternalServerError, dto.ErrCodeDeliveryFailed)
	assert.Equal(t, "Failed to send message. Please try again later.", errInfo.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestContactHandler_Send_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/contact/send", `{"name":`, "")
	requireError(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
}
