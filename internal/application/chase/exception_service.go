package chase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/loan"
	"go.uber.org/zap"
)

// ExceptionService handles the exception lifecycle: create, list, inspect,
// resolve, reject and document intake. Creating or rejecting an exception
// schedules a chase attempt through the Trigger.
type ExceptionService struct {
	exceptions chase.ExceptionRepository
	loans      loan.LoanRepository
	blobs      BlobStore
	trigger    Trigger
	logger     *zap.Logger
}

// NewExceptionService creates a new ExceptionService
func NewExceptionService(
	exceptions chase.ExceptionRepository,
	loans loan.LoanRepository,
	blobs BlobStore,
	trigger Trigger,
	logger *zap.Logger,
) *ExceptionService {
	return &ExceptionService{
		exceptions: exceptions,
		loans:      loans,
		blobs:      blobs,
		trigger:    trigger,
		logger:     logger,
	}
}

// Create flags a new exception on a loan and schedules the first chase
// attempt. The exception and its creation audit entry are written together.
func (s *ExceptionService) Create(ctx context.Context, req CreateExceptionRequest) (*ExceptionResponse, error) {
	ln, err := s.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}

	exc, err := chase.NewException(
		ln.ID,
		chase.ExceptionType(req.ExceptionType),
		chase.DocumentType(req.DocumentType),
		req.Description,
		chase.Severity(req.Severity),
	)
	if err != nil {
		return nil, err
	}

	audit := chase.NewAuditLog(exc.ID, chase.AuditExceptionCreated, chase.AuditDetails(map[string]string{
		"exception_type": string(exc.ExceptionType),
		"document_type":  string(exc.DocumentType),
		"severity":       string(exc.Severity),
	}))

	if err := s.exceptions.Create(ctx, exc, audit); err != nil {
		return nil, err
	}

	s.trigger.Enqueue(exc.ID)

	exc.Loan = ln
	resp := ToExceptionResponse(exc)
	return &resp, nil
}

// List returns exceptions newest first, optionally filtered by status,
// severity and loan.
func (s *ExceptionService) List(ctx context.Context, query ListExceptionsQuery) ([]ExceptionResponse, error) {
	filter := chase.ExceptionFilter{LoanID: query.LoanID}
	if query.Status != "" {
		status := chase.ExceptionStatus(query.Status)
		filter.Status = &status
	}
	if query.Severity != "" {
		severity := chase.Severity(query.Severity)
		filter.Severity = &severity
	}

	exceptions, err := s.exceptions.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ExceptionResponse, 0, len(exceptions))
	for i := range exceptions {
		responses = append(responses, ToExceptionResponse(&exceptions[i]))
	}
	return responses, nil
}

// Get returns one exception with its loan, communications, documents and
// audit trail.
func (s *ExceptionService) Get(ctx context.Context, id uuid.UUID) (*ExceptionDetailResponse, error) {
	exc, err := s.exceptions.FindDetailed(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := ToExceptionDetailResponse(exc)
	return &detail, nil
}

// Resolve marks an exception RESOLVED. A second resolve overwrites the
// first; the operation is not guarded.
func (s *ExceptionService) Resolve(ctx context.Context, id uuid.UUID) (*ExceptionResponse, error) {
	exc, err := s.exceptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exc.Resolve(time.Now())

	audit := chase.NewAuditLog(exc.ID, chase.AuditExceptionResolved, "{}")
	if err := s.exceptions.SaveWithAudit(ctx, exc, audit); err != nil {
		return nil, err
	}

	resp := ToExceptionResponse(exc)
	return &resp, nil
}

// Reject sends an exception back to OPEN and schedules another chase
// attempt. The attempt count is kept so the next email reads as a follow-up.
func (s *ExceptionService) Reject(ctx context.Context, id uuid.UUID, reason string) (*ExceptionResponse, error) {
	exc, err := s.exceptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exc.Reject()

	audit := chase.NewAuditLog(exc.ID, chase.AuditExceptionRejected, chase.AuditDetails(map[string]string{
		"reason": reason,
	}))
	if err := s.exceptions.SaveWithAudit(ctx, exc, audit); err != nil {
		return nil, err
	}

	s.trigger.Enqueue(exc.ID)

	resp := ToExceptionResponse(exc)
	return &resp, nil
}

// ReceiveDocument stores an uploaded borrower document, attaches it to the
// exception and moves the exception to DOCUMENT_RECEIVED. The document row,
// status update and audit entry are written in one transaction.
func (s *ExceptionService) ReceiveDocument(ctx context.Context, id uuid.UUID, fileName, contentType string, size int64, r io.Reader) (*DocumentResponse, error) {
	exc, err := s.exceptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blob, err := s.blobs.Save(ctx, fileName, contentType, size, r)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc := chase.NewDocument(exc.ID, fileName, contentType, size, blob.Key, blob.URL)
	exc.ReceiveDocument()

	audit := chase.NewAuditLog(exc.ID, chase.AuditDocumentUploaded, chase.AuditDetails(map[string]string{
		"file_name": fileName,
		"file_type": contentType,
	}))

	if err := s.exceptions.AttachDocument(ctx, exc, doc, audit); err != nil {
		return nil, err
	}

	s.logger.Info("document received",
		zap.String("exception_id", exc.ID.String()),
		zap.String("file_name", fileName),
		zap.Int64("file_size", size),
	)

	resp := ToDocumentResponse(doc)
	return &resp, nil
}
