package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormExceptionRepository_CreateWritesAuditEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	ln := seedLoan(t, db, "LN-2001")
	exc, err := chase.NewException(ln.ID, chase.ExceptionTypeMissingDocument, chase.DocumentTypeW2, "Missing W2", chase.SeverityMedium)
	require.NoError(t, err)
	audit := chase.NewAuditLog(exc.ID, chase.AuditExceptionCreated, `{"document_type":"W2"}`)

	require.NoError(t, repo.Create(ctx, exc, audit))

	var excCount, auditCount int64
	require.NoError(t, db.Model(&chase.Exception{}).Count(&excCount).Error)
	require.NoError(t, db.Model(&chase.AuditLog{}).Where("exception_id = ?", exc.ID).Count(&auditCount).Error)
	assert.Equal(t, int64(1), excCount)
	assert.Equal(t, int64(1), auditCount)
}

func TestGormExceptionRepository_FindWithLoan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-2002")

	found, err := repo.FindWithLoan(ctx, exc.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Loan)
	assert.Equal(t, "LN-2002", found.Loan.LoanNumber)
	assert.Equal(t, "john.doe@example.com", found.Loan.BorrowerEmail)
}

func TestGormExceptionRepository_FindWithLoan_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)

	_, err := repo.FindWithLoan(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormExceptionRepository_FindDetailed_ChildrenNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-2003")

	older := chase.NewOutboundEmail(exc.ID, chase.MessageTypeDocumentRequest, "First", "body", "{}", time.Now())
	older.CreatedAt = time.Now().Add(-2 * time.Hour)
	newer := chase.NewOutboundEmail(exc.ID, chase.MessageTypeReminder, "Second", "body", "{}", time.Now())
	newer.CreatedAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, db.Omit("Exception").Create(older).Error)
	require.NoError(t, db.Omit("Exception").Create(newer).Error)

	found, err := repo.FindDetailed(ctx, exc.ID)
	require.NoError(t, err)
	require.Len(t, found.Communications, 2)
	assert.Equal(t, "Second", found.Communications[0].Subject)
	assert.Equal(t, "First", found.Communications[1].Subject)
}

func TestGormExceptionRepository_FindAll_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	ln := seedLoan(t, db, "LN-2004")
	open, err := chase.NewException(ln.ID, chase.ExceptionTypeMissingDocument, chase.DocumentTypeBankStatement, "open", chase.SeverityHigh)
	require.NoError(t, err)
	require.NoError(t, db.Omit("Loan", "AssignedTo").Create(open).Error)

	resolved, err := chase.NewException(ln.ID, chase.ExceptionTypeExpiredDocument, chase.DocumentTypeInsurance, "resolved", chase.SeverityLow)
	require.NoError(t, err)
	resolved.Resolve(time.Now())
	require.NoError(t, db.Omit("Loan", "AssignedTo").Create(resolved).Error)

	status := chase.StatusOpen
	got, err := repo.FindAll(ctx, chase.ExceptionFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
	require.NotNil(t, got[0].Loan)
	assert.Equal(t, "LN-2004", got[0].Loan.LoanNumber)

	severity := chase.SeverityLow
	got, err = repo.FindAll(ctx, chase.ExceptionFilter{Severity: &severity})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, resolved.ID, got[0].ID)

	got, err = repo.FindAll(ctx, chase.ExceptionFilter{LoanID: &ln.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGormExceptionRepository_FindAll_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	ln := seedLoan(t, db, "LN-2005")
	first, err := chase.NewException(ln.ID, chase.ExceptionTypeMissingDocument, chase.DocumentTypePaystub, "first", chase.SeverityMedium)
	require.NoError(t, err)
	first.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Omit("Loan", "AssignedTo").Create(first).Error)

	second, err := chase.NewException(ln.ID, chase.ExceptionTypeMissingDocument, chase.DocumentTypeTaxReturn, "second", chase.SeverityMedium)
	require.NoError(t, err)
	second.CreatedAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, db.Omit("Loan", "AssignedTo").Create(second).Error)

	got, err := repo.FindAll(ctx, chase.ExceptionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestGormExceptionRepository_RecordContact_Atomic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-2006")

	now := time.Now()
	exc.RecordContact(now)
	comm := chase.NewOutboundEmail(exc.ID, chase.MessageTypeDocumentRequest, "Action Required", "please upload", `{"message_id":"msg-1"}`, now)
	require.NoError(t, repo.RecordContact(ctx, exc, comm))

	reloaded, err := repo.FindDetailed(ctx, exc.ID)
	require.NoError(t, err)
	assert.Equal(t, chase.StatusContacting, reloaded.Status)
	assert.Equal(t, 1, reloaded.AttemptCount)
	require.NotNil(t, reloaded.FirstContactAt)
	require.Len(t, reloaded.Communications, 1)
	assert.Equal(t, "Action Required", reloaded.Communications[0].Subject)
	assert.Equal(t, chase.DirectionOutbound, reloaded.Communications[0].Direction)
}

func TestGormExceptionRepository_AttachDocument(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-2007")

	exc.ReceiveDocument()
	doc := chase.NewDocument(exc.ID, "statement.pdf", "application/pdf", 2048, "abc/statement.pdf", "/uploads/abc/statement.pdf")
	audit := chase.NewAuditLog(exc.ID, chase.AuditDocumentUploaded, `{"file_name":"statement.pdf"}`)
	require.NoError(t, repo.AttachDocument(ctx, exc, doc, audit))

	reloaded, err := repo.FindDetailed(ctx, exc.ID)
	require.NoError(t, err)
	assert.Equal(t, chase.StatusDocumentReceived, reloaded.Status)
	require.Len(t, reloaded.Documents, 1)
	assert.Equal(t, "statement.pdf", reloaded.Documents[0].FileName)
	// seedException writes no audit entry, so the upload entry is the only one
	require.Len(t, reloaded.AuditLogs, 1)
	assert.Equal(t, chase.AuditDocumentUploaded, reloaded.AuditLogs[0].Action)
}

func TestGormExceptionRepository_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExceptionRepository(db)
	ctx := context.Background()

	seedException(t, db, "LN-2008")

	require.NoError(t, repo.DeleteAll(ctx))

	var count int64
	require.NoError(t, db.Model(&chase.Exception{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
