package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/loan"
	"go.uber.org/zap"
)

const (
	anthropicVersion = "2023-06-01"
	messagesPath     = "/v1/messages"
)

const systemPrompt = `You are a mortgage document assistant. Your job is to write clear, friendly emails to borrowers explaining what documents they need to provide for their mortgage application.
Rules:
- Write at an 8th grade reading level
- Be warm and reassuring
- Be SPECIFIC about exactly what is needed
- Include the account details they should look for
- Never use mortgage jargon
- Keep emails under 200 words
- Always include a clear call to action`

// AnthropicComposer composes chase emails through the Anthropic Messages API.
// One request per Compose call; delivery-level retries live in the caller's
// chase loop, not here.
type AnthropicComposer struct {
	apiKey        string
	model         string
	maxTokens     int
	baseURL       string
	portalBaseURL string
	client        *http.Client
	logger        *zap.Logger
}

// AnthropicOptions configures the AnthropicComposer
type AnthropicOptions struct {
	APIKey        string
	Model         string
	MaxTokens     int
	BaseURL       string
	PortalBaseURL string
	Timeout       time.Duration
}

// NewAnthropicComposer creates a composer backed by the Anthropic Messages API
func NewAnthropicComposer(opts AnthropicOptions, logger *zap.Logger) *AnthropicComposer {
	return &AnthropicComposer{
		apiKey:        opts.APIKey,
		model:         opts.Model,
		maxTokens:     opts.MaxTokens,
		baseURL:       strings.TrimSuffix(opts.BaseURL, "/"),
		portalBaseURL: opts.PortalBaseURL,
		client:        &http.Client{Timeout: opts.Timeout},
		logger:        logger,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Compose asks the model for a subject/body pair tailored to the exception
func (c *AnthropicComposer) Compose(ctx context.Context, exc *chase.Exception, ln *loan.Loan, attemptNumber int) (*appchase.Message, error) {
	portalLink := fmt.Sprintf("%s/?id=%s", c.portalBaseURL, exc.ID)

	userPrompt := fmt.Sprintf(`Generate a friendly email for:
- Borrower: %s
- Problem: %s - %s
- Asking for: %s
- Loan: #%s
- Portal Link (MUST BE INCLUDED): %s
- This is contact attempt %d; acknowledge earlier emails politely if it is not the first.

Return ONLY a JSON object with "subject" and "body" keys.`,
		ln.BorrowerName, exc.ExceptionType, exc.Description, exc.DocumentType, ln.LoanNumber, portalLink, attemptNumber)

	payload, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Anthropic API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("anthropic API error (%d)", resp.StatusCode)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Content) == 0 {
		return nil, fmt.Errorf("empty response content")
	}

	return parseMessage(apiResp.Content[0].Text)
}

// parseMessage extracts the subject/body JSON, tolerating markdown code fences
func parseMessage(text string) (*appchase.Message, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var msg appchase.Message
	if err := json.Unmarshal([]byte(cleaned), &msg); err != nil {
		return nil, fmt.Errorf("parse composed message: %w", err)
	}
	if msg.Subject == "" || msg.Body == "" {
		return nil, fmt.Errorf("composed message missing subject or body")
	}
	return &msg, nil
}
