package ai

import (
	"strings"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// placeholderKeyPrefix marks the redacted sample key shipped in env templates.
// A key carrying it is treated the same as no key at all.
const placeholderKeyPrefix = "sk-ant-api03-"

// NewComposer picks the message composer from configuration. Without a usable
// API key the template fallback is used so the chase loop keeps working.
func NewComposer(cfg config.AIConfig, portalBaseURL string, logger *zap.Logger) appchase.Composer {
	if cfg.APIKey == "" || strings.HasPrefix(cfg.APIKey, placeholderKeyPrefix) {
		logger.Warn("AI API key missing or placeholder, using template composer")
		return NewTemplateComposer(portalBaseURL)
	}

	logger.Info("Using Anthropic composer", zap.String("model", cfg.Model))
	return NewAnthropicComposer(AnthropicOptions{
		APIKey:        cfg.APIKey,
		Model:         cfg.Model,
		MaxTokens:     cfg.MaxTokens,
		BaseURL:       cfg.BaseURL,
		PortalBaseURL: portalBaseURL,
		Timeout:       cfg.Timeout,
	}, logger)
}
