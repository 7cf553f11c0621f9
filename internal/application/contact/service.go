// Package contact relays storefront contact form messages to the store inbox.
package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgSent              = "Message sent successfully! Check your email for confirmation."
)

// Mail is a message addressed to the store inbox
type Mail struct {
	Subject string
	Body    string
	// ReplyTo is the visitor's address so the store can answer directly
	ReplyTo     string
	ReplyToName string
}

// Mailer delivers mail to the store inbox and returns the message ID
type Mailer interface {
	Send(ctx context.Context, m Mail) (string, error)
}

// Service validates contact submissions and hands them to a Mailer
type Service struct {
	mailer   Mailer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new contact Service
func NewService(mailer Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		mailer:   mailer,
		validate: validator.New(),
		logger:   logger,
	}
}

// Send relays a submission. Name, email and message are all required after trimming.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)

	var missing []shared.FieldError
	for _, f := range []struct{ field, value string }{
		{"name", name},
		{"email", email},
		{"message", message},
	} {
		if f.value == "" {
			missing = append(missing, shared.FieldError{Field: f.field, Message: "This field is required"})
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewValidationError(missing).WithMessage(msgAllFieldsRequired)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, shared.NewValidationError([]shared.FieldError{
			{Field: "email", Message: "Invalid email format"},
		})
	}

	id, err := s.mailer.Send(ctx, Mail{
		Subject:     "Contact form: " + name,
		Body:        fmt.Sprintf("%s - %s - %s", name, email, message),
		ReplyTo:     email,
		ReplyToName: name,
	})
	if err != nil {
		s.logger.Error("Failed to relay contact message", zap.Error(err))
		return nil, shared.ErrDeliveryFailed
	}

	s.logger.Info("Contact message relayed", zap.String("message_id", id))
	return &SendResult{Message: msgSent, MessageID: id}, nil
}
