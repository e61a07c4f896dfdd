package mail

import (
	"context"
	"fmt"
	"net/http"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridMailer delivers email through the SendGrid v3 API. Tracking
// metadata is attached as custom args so provider webhooks can correlate
// events back to the owning exception.
type SendGridMailer struct {
	client *sendgrid.Client
	from   string
	logger *zap.Logger
}

// NewSendGridMailer creates a SendGrid-backed mailer
func NewSendGridMailer(apiKey, from string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// Send delivers one email through SendGrid
func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string, tracking map[string]string) (*appchase.SendResult, error) {
	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("", m.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		htmlBody(body),
	)
	for key, value := range tracking {
		message.Personalizations[0].SetCustomArg(key, value)
	}

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		m.logger.Error("SendGrid rejected email",
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body))
		return nil, fmt.Errorf("sendgrid rejected email (%d)", resp.StatusCode)
	}

	return &appchase.SendResult{
		MessageID: messageIDFromHeaders(resp.Headers),
		Provider:  "sendgrid",
		Detail:    map[string]any{"status_code": resp.StatusCode},
	}, nil
}

func messageIDFromHeaders(headers map[string][]string) string {
	if ids := headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}
