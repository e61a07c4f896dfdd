package chase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/meda/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestLoan(t *testing.T) *loan.Loan {
	t.Helper()
	ln, err := loan.NewLoan(uuid.New(), "LN-2001", "Jane Smith", "jane@example.com")
	assert.NoError(t, err)
	return ln
}

func TestExceptionService_Create_SchedulesChase(t *testing.T) {
	ln := newTestLoan(t)

	repo := new(MockExceptionRepository)
	loans := new(MockLoanRepository)
	blobs := new(MockBlobStore)
	trigger := new(MockTrigger)

	loans.On("FindByID", mock.Anything, ln.ID).Return(ln, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	trigger.On("Enqueue", mock.Anything).Return(true)

	svc := NewExceptionService(repo, loans, blobs, trigger, zap.NewNop())
	resp, err := svc.Create(context.Background(), CreateExceptionRequest{
		LoanID:       ln.ID,
		DocumentType: "BANK_STATEMENT",
		Description:  "Missing January statement",
		Severity:     "HIGH",
	})

	assert.NoError(t, err)
	assert.Equal(t, "OPEN", resp.Status)
	assert.Equal(t, "MISSING_DOCUMENT", resp.ExceptionType)
	assert.Equal(t, "HIGH", resp.Severity)
	assert.Equal(t, 0, resp.AttemptCount)
	assert.NotNil(t, resp.Loan)
	assert.Equal(t, "LN-2001", resp.Loan.LoanNumber)

	audit := repo.Calls[0].Arguments.Get(2).(*chase.AuditLog)
	assert.Equal(t, chase.AuditExceptionCreated, audit.Action)
	assert.Contains(t, audit.Details, "BANK_STATEMENT")

	trigger.AssertCalled(t, "Enqueue", resp.ID)
	repo.AssertExpectations(t)
}

func TestExceptionService_Create_UnknownLoan(t *testing.T) {
	repo := new(MockExceptionRepository)
	loans := new(MockLoanRepository)
	trigger := new(MockTrigger)

	id := uuid.New()
	loans.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	svc := NewExceptionService(repo, loans, new(MockBlobStore), trigger, zap.NewNop())
	_, err := svc.Create(context.Background(), CreateExceptionRequest{
		LoanID:       id,
		DocumentType: "W2",
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	trigger.AssertNotCalled(t, "Enqueue", mock.Anything)
}

func TestExceptionService_List_MapsFilter(t *testing.T) {
	exc := newTestException(t)

	repo := new(MockExceptionRepository)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f chase.ExceptionFilter) bool {
		return f.Status != nil && *f.Status == chase.StatusOpen &&
			f.Severity != nil && *f.Severity == chase.SeverityHigh &&
			f.LoanID == nil
	})).Return([]chase.Exception{*exc}, nil)

	svc := NewExceptionService(repo, new(MockLoanRepository), new(MockBlobStore), new(MockTrigger), zap.NewNop())
	list, err := svc.List(context.Background(), ListExceptionsQuery{Status: "OPEN", Severity: "HIGH"})

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, exc.ID, list[0].ID)
	repo.AssertExpectations(t)
}

func TestExceptionService_Resolve(t *testing.T) {
	exc := newTestException(t)

	repo := new(MockExceptionRepository)
	repo.On("FindByID", mock.Anything, exc.ID).Return(exc, nil)
	repo.On("SaveWithAudit", mock.Anything, exc, mock.Anything).Return(nil)

	svc := NewExceptionService(repo, new(MockLoanRepository), new(MockBlobStore), new(MockTrigger), zap.NewNop())
	resp, err := svc.Resolve(context.Background(), exc.ID)

	assert.NoError(t, err)
	assert.Equal(t, "RESOLVED", resp.Status)
	assert.NotNil(t, resp.ResolvedAt)

	audit := repo.Calls[1].Arguments.Get(2).(*chase.AuditLog)
	assert.Equal(t, chase.AuditExceptionResolved, audit.Action)
}

func TestExceptionService_Reject_ReopensAndRetriggers(t *testing.T) {
	exc := newTestException(t)
	exc.RecordContact(exc.CreatedAt)

	repo := new(MockExceptionRepository)
	trigger := new(MockTrigger)
	repo.On("FindByID", mock.Anything, exc.ID).Return(exc, nil)
	repo.On("SaveWithAudit", mock.Anything, exc, mock.Anything).Return(nil)
	trigger.On("Enqueue", exc.ID).Return(true)

	svc := NewExceptionService(repo, new(MockLoanRepository), new(MockBlobStore), trigger, zap.NewNop())
	resp, err := svc.Reject(context.Background(), exc.ID, "document is illegible")

	assert.NoError(t, err)
	assert.Equal(t, "OPEN", resp.Status)
	assert.Equal(t, 1, resp.AttemptCount, "rejection keeps the attempt count")
	trigger.AssertExpectations(t)
}

func TestExceptionService_ReceiveDocument(t *testing.T) {
	exc := newTestException(t)

	repo := new(MockExceptionRepository)
	blobs := new(MockBlobStore)
	repo.On("FindByID", mock.Anything, exc.ID).Return(exc, nil)
	blobs.On("Save", mock.Anything, "statement.pdf", "application/pdf", int64(11), mock.Anything).
		Return(&StoredBlob{Key: "abc/statement.pdf", URL: "/uploads/abc/statement.pdf"}, nil)
	repo.On("AttachDocument", mock.Anything, exc, mock.Anything, mock.Anything).Return(nil)

	svc := NewExceptionService(repo, new(MockLoanRepository), blobs, new(MockTrigger), zap.NewNop())
	doc, err := svc.ReceiveDocument(context.Background(), exc.ID, "statement.pdf", "application/pdf", 11, strings.NewReader("pdf content"))

	assert.NoError(t, err)
	assert.Equal(t, "statement.pdf", doc.FileName)
	assert.Equal(t, "/uploads/abc/statement.pdf", doc.StorageURL)
	assert.Equal(t, chase.StatusDocumentReceived, exc.Status)

	audit := repo.Calls[1].Arguments.Get(3).(*chase.AuditLog)
	assert.Equal(t, chase.AuditDocumentUploaded, audit.Action)
	assert.Contains(t, audit.Details, "statement.pdf")
}

func TestCommunicationService_Recent_CapsLimit(t *testing.T) {
	comms := new(MockCommunicationRepository)
	comms.On("FindRecent", mock.Anything, DefaultCommunicationLimit).Return([]chase.Communication{}, nil)

	svc := NewCommunicationService(comms)

	_, err := svc.Recent(context.Background(), 500)
	assert.NoError(t, err)

	_, err = svc.Recent(context.Background(), 0)
	assert.NoError(t, err)

	comms.AssertNumberOfCalls(t, "FindRecent", 2)
}
