// Package mailer delivers transactional and newsletter email.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"brokerage/internal/config"
	"brokerage/internal/middleware"
)

// Message is a single HTML email to one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends one message per call.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the Mailer selected by MAIL_DRIVER.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailDriver {
	case "", "log":
		return LogMailer{}, nil
	case "resend":
		return NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.MailDriver)
	}
}

// LogMailer writes messages to the application log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	middleware.Logger.InfoContext(ctx, "email (log driver)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}
