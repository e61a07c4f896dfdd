package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/meda/backend/internal/domain/chase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCommunicationRepository_FindRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommunicationRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-4001")

	for i, subject := range []string{"oldest", "middle", "newest"} {
		comm := chase.NewOutboundEmail(exc.ID, chase.MessageTypeDocumentRequest, subject, "body", "{}", time.Now())
		comm.CreatedAt = time.Now().Add(time.Duration(i-3) * time.Hour)
		require.NoError(t, db.Omit("Exception").Create(comm).Error)
	}

	comms, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, comms, 2)
	assert.Equal(t, "newest", comms[0].Subject)
	assert.Equal(t, "middle", comms[1].Subject)

	// the owning exception and its loan come preloaded for the dashboard
	require.NotNil(t, comms[0].Exception)
	require.NotNil(t, comms[0].Exception.Loan)
	assert.Equal(t, "LN-4001", comms[0].Exception.Loan.LoanNumber)
}

func TestGormCommunicationRepository_CountOutbound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommunicationRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-4002")

	request := chase.NewOutboundEmail(exc.ID, chase.MessageTypeDocumentRequest, "req", "body", "{}", time.Now())
	require.NoError(t, db.Omit("Exception").Create(request).Error)
	reminder := chase.NewOutboundEmail(exc.ID, chase.MessageTypeReminder, "rem", "body", "{}", time.Now())
	require.NoError(t, db.Omit("Exception").Create(reminder).Error)

	count, err := repo.CountOutbound(ctx, exc.ID, chase.MessageTypeDocumentRequest)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormAuditLogRepository_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAuditLogRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-4003")

	created := chase.NewAuditLog(exc.ID, chase.AuditExceptionCreated, "{}")
	require.NoError(t, db.Create(created).Error)
	resolved := chase.NewAuditLog(exc.ID, chase.AuditExceptionResolved, "{}")
	require.NoError(t, db.Create(resolved).Error)

	require.NoError(t, repo.DeleteAll(ctx))

	var count int64
	require.NoError(t, db.Model(&chase.AuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGormDocumentRepository_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	exc := seedException(t, db, "LN-4004")
	doc := chase.NewDocument(exc.ID, "w2.pdf", "application/pdf", 1024, "k/w2.pdf", "/uploads/k/w2.pdf")
	require.NoError(t, db.Create(doc).Error)

	require.NoError(t, repo.DeleteAll(ctx))

	var count int64
	require.NoError(t, db.Model(&chase.Document{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
