// Package mail delivers contact form messages to the store inbox.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/clothstore/backend/internal/application/contact"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ contact.Mailer = (*LogMailer)(nil)

// LogMailer writes messages to the log. It is used when no SMTP relay is configured.
type LogMailer struct {
	inbox  string
	logger *zap.Logger
}

// NewLogMailer creates a log-only mailer. inbox is reported as the recipient.
func NewLogMailer(inbox string, logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{inbox: inbox, logger: logger.Named("mail")}
}

// Send logs the message and returns a generated message ID
func (m *LogMailer) Send(_ context.Context, msg contact.Mail) (string, error) {
	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(m.inbox))
	m.logger.Info("Mail not sent, SMTP disabled",
		zap.String("message_id", id),
		zap.String("to", m.inbox),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return id, nil
}

func domainOf(addr string) string {
	if _, domain, ok := strings.Cut(addr, "@"); ok && domain != "" {
		return domain
	}
	return "localhost"
}
