package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	from   string
	client *resend.Client
}

// NewResendMailer returns a ResendMailer sending as from.
func NewResendMailer(apiKey, from string) *ResendMailer {
	client := resend.NewCustomClient(&http.Client{Timeout: 15 * time.Second}, apiKey)
	return &ResendMailer{from: from, client: client}
}

// WithBaseURL points the mailer at another API base, used by tests.
func (m *ResendMailer) WithBaseURL(base string) (*ResendMailer, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse resend base url: %w", err)
	}
	m.client.BaseURL = u
	return m, nil
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("send email via resend: %w", err)
	}
	return nil
}
