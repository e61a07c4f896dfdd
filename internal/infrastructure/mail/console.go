package mail

import (
	"context"

	appchase "github.com/meda/backend/internal/application/chase"
	"go.uber.org/zap"
)

// mockMessageID is returned for every console delivery so downstream code
// can tell mock sends apart from real provider IDs.
const mockMessageID = "mock-email-id"

// ConsoleMailer logs emails instead of delivering them. It is the fallback
// when no provider credentials are configured.
type ConsoleMailer struct {
	from   string
	logger *zap.Logger
}

// NewConsoleMailer creates a console-only mailer
func NewConsoleMailer(from string, logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{from: from, logger: logger}
}

// Send logs the email and reports success
func (m *ConsoleMailer) Send(_ context.Context, to, subject, body string, tracking map[string]string) (*appchase.SendResult, error) {
	m.logger.Info("Mock email sent",
		zap.String("to", to),
		zap.String("from", m.from),
		zap.String("subject", subject),
		zap.String("body", body),
		zap.Any("tracking", tracking))

	return &appchase.SendResult{
		MessageID: mockMessageID,
		Provider:  "console",
	}, nil
}
