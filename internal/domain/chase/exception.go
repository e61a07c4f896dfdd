package chase

import (
	"time"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/identity"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/meda/backend/internal/domain/shared"
)

// ExceptionType classifies what is wrong with the loan file
type ExceptionType string

const (
	ExceptionTypeMissingDocument ExceptionType = "MISSING_DOCUMENT"
	ExceptionTypeMissingPages    ExceptionType = "MISSING_PAGES"
	ExceptionTypeExpiredDocument ExceptionType = "EXPIRED_DOCUMENT"
	ExceptionTypeIllegibleScan   ExceptionType = "ILLEGIBLE_SCAN"
	ExceptionTypeWrongDocument   ExceptionType = "WRONG_DOCUMENT"
	ExceptionTypeWrongAccount    ExceptionType = "WRONG_ACCOUNT"
	ExceptionTypeUnsignedForm    ExceptionType = "UNSIGNED_FORM"
	ExceptionTypeDataMismatch    ExceptionType = "DATA_MISMATCH"
	ExceptionTypeIncompleteData  ExceptionType = "INCOMPLETE_DATA"
	ExceptionTypeOther           ExceptionType = "OTHER"
)

// DocumentType identifies the document requested from the borrower
type DocumentType string

const (
	DocumentTypeBankStatement DocumentType = "BANK_STATEMENT"
	DocumentTypeW2            DocumentType = "W2"
	DocumentTypeTaxReturn     DocumentType = "TAX_RETURN"
	DocumentTypePaystub       DocumentType = "PAYSTUB"
	DocumentTypeVOE           DocumentType = "VOE"
	DocumentTypeAppraisal     DocumentType = "APPRAISAL"
	DocumentTypeTitleReport   DocumentType = "TITLE_REPORT"
	DocumentTypeInsurance     DocumentType = "INSURANCE"
	DocumentTypeIDDocument    DocumentType = "ID_DOCUMENT"
	DocumentTypeOther         DocumentType = "OTHER"
)

// Severity is the operator-assigned urgency tier
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ExceptionStatus is the lifecycle state of an exception.
//
// AWAITING_RESPONSE, VALIDATING, ESCALATED and CANCELLED are declared for
// schema compatibility but no implemented transition produces them; they are
// reserved for reminder/escalation scheduling that does not exist yet.
type ExceptionStatus string

const (
	StatusOpen             ExceptionStatus = "OPEN"
	StatusContacting       ExceptionStatus = "CONTACTING"
	StatusAwaitingResponse ExceptionStatus = "AWAITING_RESPONSE"
	StatusDocumentReceived ExceptionStatus = "DOCUMENT_RECEIVED"
	StatusValidating       ExceptionStatus = "VALIDATING"
	StatusResolved         ExceptionStatus = "RESOLVED"
	StatusEscalated        ExceptionStatus = "ESCALATED"
	StatusCancelled        ExceptionStatus = "CANCELLED"
)

// Audit actions written to the exception trail
const (
	AuditExceptionCreated  = "exception.created"
	AuditExceptionResolved = "exception.resolved"
	AuditExceptionRejected = "exception.rejected"
	AuditDocumentUploaded  = "document.uploaded"
)

// DefaultMaxAttempts is the default cap recorded on new exceptions. Nothing
// enforces it yet; the chase loop runs once per create/reject trigger.
const DefaultMaxAttempts = 3

// Exception is the central entity: a flagged problem with a loan file that
// requires borrower action. It owns its communications, documents and audit
// trail.
type Exception struct {
	shared.BaseEntity
	LoanID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"loan_id"`
	Loan           *loan.Loan      `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
	AssignedToID   *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedTo     *identity.User  `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	ExceptionType  ExceptionType   `gorm:"type:varchar(30);not null" json:"exception_type"`
	DocumentType   DocumentType    `gorm:"type:varchar(30);not null" json:"document_type"`
	Description    string          `gorm:"type:text;not null" json:"description"`
	Severity       Severity        `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"severity"`
	Status         ExceptionStatus `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	AttemptCount   int             `gorm:"not null;default:0" json:"attempt_count"`
	MaxAttempts    int             `gorm:"not null;default:3" json:"max_attempts"`
	SLADeadline    *time.Time      `json:"sla_deadline,omitempty"`
	FirstContactAt *time.Time      `json:"first_contact_at,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	EscalatedAt    *time.Time      `json:"escalated_at,omitempty"`
	Communications []Communication `gorm:"foreignKey:ExceptionID" json:"communications,omitempty"`
	Documents      []Document      `gorm:"foreignKey:ExceptionID" json:"documents,omitempty"`
	AuditLogs      []AuditLog      `gorm:"foreignKey:ExceptionID" json:"audit_logs,omitempty"`
}

// TableName returns the table name for GORM
func (Exception) TableName() string {
	return "exceptions"
}

// NewException creates an exception in the OPEN state. An empty exception
// type falls back to MISSING_DOCUMENT, an empty severity to MEDIUM.
func NewException(loanID uuid.UUID, excType ExceptionType, docType DocumentType, description string, severity Severity) (*Exception, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOAN", "Exception must belong to a loan")
	}
	if docType == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type is required")
	}
	if excType == "" {
		excType = ExceptionTypeMissingDocument
	}
	if severity == "" {
		severity = SeverityMedium
	}

	return &Exception{
		BaseEntity:    shared.NewBaseEntity(),
		LoanID:        loanID,
		ExceptionType: excType,
		DocumentType:  docType,
		Description:   description,
		Severity:      severity,
		Status:        StatusOpen,
		AttemptCount:  0,
		MaxAttempts:   DefaultMaxAttempts,
	}, nil
}

// RecordContact transitions the exception to CONTACTING after a successful
// chase-loop send: attempt count goes up by exactly one and the first contact
// timestamp is set once.
func (e *Exception) RecordContact(at time.Time) {
	e.Status = StatusContacting
	e.AttemptCount++
	if e.FirstContactAt == nil {
		e.FirstContactAt = &at
	}
	e.UpdatedAt = at
}

// ReceiveDocument transitions the exception to DOCUMENT_RECEIVED. Allowed
// from any state; the borrower portal has no visibility into the lifecycle.
func (e *Exception) ReceiveDocument() {
	e.Status = StatusDocumentReceived
	e.Touch()
}

// Resolve marks the exception RESOLVED. Intentionally not guarded against a
// second call: the last write wins, which matches the operator dashboard's
// behavior under concurrent resolves.
func (e *Exception) Resolve(at time.Time) {
	e.Status = StatusResolved
	e.ResolvedAt = &at
	e.UpdatedAt = at
}

// Reject re-opens the exception so the chase loop can run again
func (e *Exception) Reject() {
	e.Status = StatusOpen
	e.Touch()
}

// IsResolved reports whether the exception reached its terminal state
func (e *Exception) IsResolved() bool {
	return e.Status == StatusResolved
}
