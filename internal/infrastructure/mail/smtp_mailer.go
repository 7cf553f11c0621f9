package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/clothstore/backend/internal/application/contact"
	"github.com/clothstore/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var _ contact.Mailer = (*SMTPMailer)(nil)

// sender is the part of *gomail.Client used to deliver messages
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPMailer relays messages through an SMTP server
type SMTPMailer struct {
	client sender
	from   string
	to     string
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer from configuration. No connection is made until Send.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, errors.New("mail sender and recipient are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLS)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	logger.Info("SMTP mailer configured",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("tls", cfg.TLS),
	)
	return &SMTPMailer{client: client, from: cfg.From, to: cfg.To, logger: logger.Named("mail")}, nil
}

// Send delivers the message to the configured inbox and returns its Message-ID header
func (m *SMTPMailer) Send(ctx context.Context, msg contact.Mail) (string, error) {
	out, err := m.build(msg)
	if err != nil {
		return "", err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return "", fmt.Errorf("smtp delivery: %w", err)
	}

	id := messageID(out)
	m.logger.Debug("Mail sent", zap.String("message_id", id), zap.String("to", m.to))
	return id, nil
}

func (m *SMTPMailer) build(msg contact.Mail) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := out.To(m.to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyToFormat(msg.ReplyToName, msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return out, nil
}

func messageID(msg *gomail.Msg) string {
	if ids := msg.GetGenHeader(gomail.HeaderMessageID); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

func tlsPolicy(name string) gomail.TLSPolicy {
	switch name {
	case "none":
		return gomail.NoTLS
	case "opportunistic":
		return gomail.TLSOpportunistic
	default:
		return gomail.TLSMandatory
	}
}
