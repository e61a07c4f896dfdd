package mail

import (
	"strings"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// placeholderSendGridKey marks the redacted sample key shipped in env
// templates. A key carrying it cannot authenticate, so it counts as absent.
const placeholderSendGridKey = "SG.xxxxxxxx"

// htmlBody converts a plain-text body to minimal HTML
func htmlBody(body string) string {
	return strings.ReplaceAll(body, "\n", "<br>")
}

// NewMailer picks the delivery provider from configuration. An empty
// provider keeps the legacy credential sniffing: SMTP credentials win, then
// a usable SendGrid key, then the console mock.
func NewMailer(cfg config.EmailConfig, logger *zap.Logger) appchase.Mailer {
	switch cfg.Provider {
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.From, logger)
	case "smtp":
		return newSMTP(cfg, logger)
	case "console":
		return NewConsoleMailer(cfg.From, logger)
	}

	if cfg.SMTPHost != "" {
		logger.Info("Using SMTP mailer", zap.String("host", cfg.SMTPHost))
		return newSMTP(cfg, logger)
	}
	if cfg.SendGridAPIKey != "" && !strings.HasPrefix(cfg.SendGridAPIKey, placeholderSendGridKey) {
		logger.Info("Using SendGrid mailer")
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.From, logger)
	}

	logger.Warn("No email credentials configured, emails will be logged to console only")
	return NewConsoleMailer(cfg.From, logger)
}

func newSMTP(cfg config.EmailConfig, logger *zap.Logger) *SMTPMailer {
	return NewSMTPMailer(SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.From,
	}, logger)
}
