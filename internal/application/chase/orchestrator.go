package chase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrDuplicateSend is returned when a chase run is aborted because the same
// attempt already claimed its send token.
var ErrDuplicateSend = shared.NewDomainError("DUPLICATE_SEND", "Chase attempt was already sent")

// sendTokenTTL bounds how long a claimed send token blocks a duplicate run.
const sendTokenTTL = 24 * time.Hour

// Orchestrator runs the chase loop for a single exception: compose the
// borrower message, deliver it, and record the contact.
type Orchestrator struct {
	exceptions chase.ExceptionRepository
	composer   Composer
	mailer     Mailer
	guard      SendGuard
	logger     *zap.Logger
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(
	exceptions chase.ExceptionRepository,
	composer Composer,
	mailer Mailer,
	guard SendGuard,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		exceptions: exceptions,
		composer:   composer,
		mailer:     mailer,
		guard:      guard,
		logger:     logger,
	}
}

// Run executes one chase attempt. The sequence is strictly ordered: load,
// compose, claim the send token, send, then persist the communication row and
// status update in one transaction. A failure after the send leaves the email
// delivered but unrecorded; there is no compensation beyond the returned
// error.
func (o *Orchestrator) Run(ctx context.Context, exceptionID uuid.UUID) error {
	exc, err := o.exceptions.FindWithLoan(ctx, exceptionID)
	if err != nil {
		return fmt.Errorf("load exception %s: %w", exceptionID, err)
	}
	if exc.Loan == nil {
		return shared.NewDomainError("MISSING_LOAN", "Exception has no loan attached")
	}

	attempt := exc.AttemptCount + 1

	msg, err := o.composer.Compose(ctx, exc, exc.Loan, attempt)
	if err != nil {
		return fmt.Errorf("compose message: %w", err)
	}

	// One token per (exception, attempt) pair. The claim happens before the
	// send so a racing duplicate run cannot email the borrower twice.
	token := fmt.Sprintf("%s:%d", exc.ID, attempt)
	claimed, err := o.guard.Claim(ctx, token, sendTokenTTL)
	if err != nil {
		return fmt.Errorf("claim send token: %w", err)
	}
	if !claimed {
		return ErrDuplicateSend
	}

	tracking := map[string]string{"exception_id": exc.ID.String()}
	result, err := o.mailer.Send(ctx, exc.Loan.BorrowerEmail, msg.Subject, msg.Body, tracking)
	if err != nil {
		// No email left, so the token must not outlive this run: the attempt
		// counter is unchanged and a re-trigger recomputes the same token.
		if relErr := o.guard.Release(ctx, token); relErr != nil {
			o.logger.Error("failed to release send token",
				zap.String("token", token),
				zap.Error(relErr),
			)
		}
		return fmt.Errorf("send chase email: %w", err)
	}

	metadata, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("serialize provider response: %w", err)
	}

	now := time.Now()
	comm := chase.NewOutboundEmail(exc.ID, chase.MessageTypeDocumentRequest, msg.Subject, msg.Body, string(metadata), now)
	exc.RecordContact(now)

	if err := o.exceptions.RecordContact(ctx, exc, comm); err != nil {
		return fmt.Errorf("record contact: %w", err)
	}

	o.logger.Info("chase attempt completed",
		zap.String("exception_id", exc.ID.String()),
		zap.Int("attempt", attempt),
		zap.String("provider", result.Provider),
		zap.String("message_id", result.MessageID),
	)

	return nil
}
