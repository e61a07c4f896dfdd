package chase

import (
	"context"

	"github.com/google/uuid"
)

// ExceptionFilter narrows an exception listing. Nil fields are ignored.
type ExceptionFilter struct {
	Status   *ExceptionStatus
	Severity *Severity
	LoanID   *uuid.UUID
}

// ExceptionRepository defines the interface for exception persistence.
//
// The multi-write operations (Create, SaveWithAudit, RecordContact,
// AttachDocument) must commit atomically: the chase loop relies on the
// Communication row and the status update landing together or not at all.
type ExceptionRepository interface {
	// FindByID finds an exception by ID without preloading relations
	FindByID(ctx context.Context, id uuid.UUID) (*Exception, error)

	// FindWithLoan finds an exception with its loan preloaded. Returns
	// shared.ErrNotFound when the exception does not exist.
	FindWithLoan(ctx context.Context, id uuid.UUID) (*Exception, error)

	// FindDetailed finds an exception with loan, assignee, documents,
	// communications and audit logs preloaded, child collections newest first.
	FindDetailed(ctx context.Context, id uuid.UUID) (*Exception, error)

	// FindAll lists exceptions newest first with loan and assignee preloaded
	FindAll(ctx context.Context, filter ExceptionFilter) ([]Exception, error)

	// Create persists a new exception together with its creation audit entry
	Create(ctx context.Context, exc *Exception, audit *AuditLog) error

	// Save updates an existing exception
	Save(ctx context.Context, exc *Exception) error

	// SaveWithAudit updates an exception and appends an audit entry atomically
	SaveWithAudit(ctx context.Context, exc *Exception, audit *AuditLog) error

	// RecordContact persists the chase-loop outcome: the communication row and
	// the CONTACTING status update in one transaction.
	RecordContact(ctx context.Context, exc *Exception, comm *Communication) error

	// AttachDocument persists an uploaded document, the DOCUMENT_RECEIVED
	// status update and the audit entry in one transaction.
	AttachDocument(ctx context.Context, exc *Exception, doc *Document, audit *AuditLog) error

	// DeleteAll removes all exceptions (admin reset)
	DeleteAll(ctx context.Context) error
}
