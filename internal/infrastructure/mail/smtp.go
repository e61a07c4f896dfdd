package mail

import (
	"context"
	"fmt"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/google/uuid"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer delivers email over plain SMTP, intended for self-hosted relays
// and mailhog-style development setups.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// SMTPOptions configures the SMTPMailer
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPMailer creates an SMTP-backed mailer
func NewSMTPMailer(opts SMTPOptions, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
		from:   opts.From,
		logger: logger,
	}
}

// Send delivers one email over SMTP. The dial honors context cancellation
// only coarsely: gomail has no context support, so a cancelled context is
// checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string, tracking map[string]string) (*appchase.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", htmlBody(body))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return nil, fmt.Errorf("smtp send: %w", err)
	}

	detail := make(map[string]any, len(tracking))
	for key, value := range tracking {
		detail[key] = value
	}

	return &appchase.SendResult{
		MessageID: uuid.NewString(),
		Provider:  "smtp",
		Detail:    detail,
	}, nil
}
