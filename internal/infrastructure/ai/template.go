package ai

import (
	"context"
	"fmt"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/loan"
)

// TemplateComposer renders chase emails from a fixed template. It is the
// fallback when no usable AI credentials are configured, and keeps local
// development working without network access.
type TemplateComposer struct {
	portalBaseURL string
}

// NewTemplateComposer creates a template-based composer
func NewTemplateComposer(portalBaseURL string) *TemplateComposer {
	return &TemplateComposer{portalBaseURL: portalBaseURL}
}

// Compose renders the document-request email for one chase attempt
func (c *TemplateComposer) Compose(_ context.Context, exc *chase.Exception, ln *loan.Loan, _ int) (*appchase.Message, error) {
	portalLink := fmt.Sprintf("%s/?id=%s", c.portalBaseURL, exc.ID)

	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"We are missing your **%s** for your mortgage application.\n\n"+
			"Specific Issue: %s.\n\n"+
			"Please click the link below to upload your %s:\n\n"+
			"%s\n\n"+
			"Thank you,\nLoan Processing Team",
		ln.BorrowerName, exc.DocumentType, exc.Description, exc.DocumentType, portalLink,
	)

	return &appchase.Message{
		Subject: fmt.Sprintf("Action Required: Please upload your %s", exc.DocumentType),
		Body:    body,
	}, nil
}
