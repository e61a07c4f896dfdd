package chase

import (
	"time"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// CreateExceptionRequest represents a request to flag a new loan exception
type CreateExceptionRequest struct {
	LoanID        uuid.UUID `json:"loan_id" binding:"required"`
	ExceptionType string    `json:"exception_type" binding:"omitempty,oneof=MISSING_DOCUMENT MISSING_PAGES EXPIRED_DOCUMENT ILLEGIBLE_SCAN WRONG_DOCUMENT WRONG_ACCOUNT UNSIGNED_FORM DATA_MISMATCH INCOMPLETE_DATA OTHER"`
	DocumentType  string    `json:"document_type" binding:"required,oneof=BANK_STATEMENT W2 TAX_RETURN PAYSTUB VOE APPRAISAL TITLE_REPORT INSURANCE ID_DOCUMENT OTHER"`
	Description   string    `json:"description" binding:"max=2000"`
	Severity      string    `json:"severity" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
}

// ListExceptionsQuery represents filter options for the exception list
type ListExceptionsQuery struct {
	Status   string     `form:"status" binding:"omitempty,oneof=OPEN CONTACTING AWAITING_RESPONSE DOCUMENT_RECEIVED VALIDATING RESOLVED ESCALATED CANCELLED"`
	Severity string     `form:"severity" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	LoanID   *uuid.UUID `form:"loan_id"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID            uuid.UUID        `json:"id"`
	LoanNumber    string           `json:"loan_number"`
	BorrowerName  string           `json:"borrower_name"`
	BorrowerEmail string           `json:"borrower_email"`
	LoanAmount    *decimal.Decimal `json:"loan_amount,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// AssigneeResponse represents the processor an exception is assigned to
type AssigneeResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// ExceptionResponse represents an exception in API responses
type ExceptionResponse struct {
	ID             uuid.UUID         `json:"id"`
	LoanID         uuid.UUID         `json:"loan_id"`
	Loan           *LoanResponse     `json:"loan,omitempty"`
	AssignedTo     *AssigneeResponse `json:"assigned_to,omitempty"`
	ExceptionType  string            `json:"exception_type"`
	DocumentType   string            `json:"document_type"`
	Description    string            `json:"description"`
	Severity       string            `json:"severity"`
	Status         string            `json:"status"`
	AttemptCount   int               `json:"attempt_count"`
	MaxAttempts    int               `json:"max_attempts"`
	SLADeadline    *time.Time        `json:"sla_deadline,omitempty"`
	FirstContactAt *time.Time        `json:"first_contact_at,omitempty"`
	ResolvedAt     *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ExceptionDetailResponse adds the child collections to ExceptionResponse
type ExceptionDetailResponse struct {
	ExceptionResponse
	Communications []CommunicationResponse `json:"communications"`
	Documents      []DocumentResponse      `json:"documents"`
	AuditLogs      []AuditLogResponse      `json:"audit_logs"`
}

// CommunicationResponse represents a communication log row in API responses
type CommunicationResponse struct {
	ID          uuid.UUID          `json:"id"`
	ExceptionID uuid.UUID          `json:"exception_id"`
	Exception   *ExceptionResponse `json:"exception,omitempty"`
	Channel     string             `json:"channel"`
	Direction   string             `json:"direction"`
	MessageType string             `json:"message_type"`
	Subject     string             `json:"subject,omitempty"`
	Body        string             `json:"body"`
	Metadata    string             `json:"metadata,omitempty"`
	SentAt      *time.Time         `json:"sent_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// DocumentResponse represents an uploaded document in API responses
type DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	ExceptionID uuid.UUID `json:"exception_id"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	StorageURL  string    `json:"storage_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLogResponse represents an audit trail entry in API responses
type AuditLogResponse struct {
	ID          uuid.UUID `json:"id"`
	ExceptionID uuid.UUID `json:"exception_id"`
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToLoanResponse converts a loan entity to its API representation
func ToLoanResponse(l *loan.Loan) *LoanResponse {
	if l == nil {
		return nil
	}
	return &LoanResponse{
		ID:            l.ID,
		LoanNumber:    l.LoanNumber,
		BorrowerName:  l.BorrowerName,
		BorrowerEmail: l.BorrowerEmail,
		LoanAmount:    l.LoanAmount,
		CreatedAt:     l.CreatedAt,
	}
}

// ToExceptionResponse converts an exception entity to its API representation
func ToExceptionResponse(e *chase.Exception) ExceptionResponse {
	resp := ExceptionResponse{
		ID:             e.ID,
		LoanID:         e.LoanID,
		Loan:           ToLoanResponse(e.Loan),
		ExceptionType:  string(e.ExceptionType),
		DocumentType:   string(e.DocumentType),
		Description:    e.Description,
		Severity:       string(e.Severity),
		Status:         string(e.Status),
		AttemptCount:   e.AttemptCount,
		MaxAttempts:    e.MaxAttempts,
		SLADeadline:    e.SLADeadline,
		FirstContactAt: e.FirstContactAt,
		ResolvedAt:     e.ResolvedAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.AssignedTo != nil {
		resp.AssignedTo = &AssigneeResponse{
			ID:    e.AssignedTo.ID,
			Name:  e.AssignedTo.Name,
			Email: e.AssignedTo.Email,
			Role:  e.AssignedTo.Role,
		}
	}
	return resp
}

// ToExceptionDetailResponse converts an exception with preloaded children
func ToExceptionDetailResponse(e *chase.Exception) ExceptionDetailResponse {
	detail := ExceptionDetailResponse{
		ExceptionResponse: ToExceptionResponse(e),
		Communications:    make([]CommunicationResponse, 0, len(e.Communications)),
		Documents:         make([]DocumentResponse, 0, len(e.Documents)),
		AuditLogs:         make([]AuditLogResponse, 0, len(e.AuditLogs)),
	}
	for i := range e.Communications {
		detail.Communications = append(detail.Communications, ToCommunicationResponse(&e.Communications[i]))
	}
	for i := range e.Documents {
		detail.Documents = append(detail.Documents, ToDocumentResponse(&e.Documents[i]))
	}
	for i := range e.AuditLogs {
		detail.AuditLogs = append(detail.AuditLogs, ToAuditLogResponse(&e.AuditLogs[i]))
	}
	return detail
}

// ToCommunicationResponse converts a communication entity
func ToCommunicationResponse(c *chase.Communication) CommunicationResponse {
	resp := CommunicationResponse{
		ID:          c.ID,
		ExceptionID: c.ExceptionID,
		Channel:     string(c.Channel),
		Direction:   string(c.Direction),
		MessageType: string(c.MessageType),
		Subject:     c.Subject,
		Body:        c.Body,
		Metadata:    c.Metadata,
		SentAt:      c.SentAt,
		CreatedAt:   c.CreatedAt,
	}
	if c.Exception != nil {
		exc := ToExceptionResponse(c.Exception)
		resp.Exception = &exc
	}
	return resp
}

// ToDocumentResponse converts a document entity
func ToDocumentResponse(d *chase.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		ExceptionID: d.ExceptionID,
		FileName:    d.FileName,
		FileType:    d.FileType,
		FileSize:    d.FileSize,
		StorageURL:  d.StorageURL,
		CreatedAt:   d.CreatedAt,
	}
}

// ToAuditLogResponse converts an audit log entity
func ToAuditLogResponse(a *chase.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          a.ID,
		ExceptionID: a.ExceptionID,
		Action:      a.Action,
		Details:     a.Details,
		CreatedAt:   a.CreatedAt,
	}
}
