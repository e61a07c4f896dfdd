package chase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/loan"
)

// Message is a composed borrower-facing email
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Composer builds the borrower-facing message for one chase attempt.
// Implementations must be pure apart from at most one outbound API call.
type Composer interface {
	Compose(ctx context.Context, exc *chase.Exception, ln *loan.Loan, attemptNumber int) (*Message, error)
}

// SendResult is the outcome of a delivery attempt. Detail carries the raw
// provider response and is persisted opaquely on the Communication row.
type SendResult struct {
	MessageID string         `json:"message_id"`
	Provider  string         `json:"provider"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// Mailer delivers one email. Provider failures are returned unchanged;
// there is no retry or queueing at this layer.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, tracking map[string]string) (*SendResult, error)
}

// SendGuard claims idempotency tokens so one chase attempt cannot produce
// two emails. Claim returns false when the token was already taken. Release
// frees a token whose send never happened, so a retry can claim it again.
type SendGuard interface {
	Claim(ctx context.Context, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, token string) error
}

// Trigger schedules a chase attempt to run in the background. Enqueue
// reports whether the attempt was accepted.
type Trigger interface {
	Enqueue(exceptionID uuid.UUID) bool
}

// StoredBlob describes a file persisted by a BlobStore
type StoredBlob struct {
	Key string
	URL string
}

// BlobStore persists uploaded borrower documents
type BlobStore interface {
	Save(ctx context.Context, fileName string, contentType string, size int64, r io.Reader) (*StoredBlob, error)
}
