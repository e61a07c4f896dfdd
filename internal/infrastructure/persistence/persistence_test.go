package persistence

import (
	"testing"

	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/identity"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/meda/backend/internal/domain/notify"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&loan.Organization{},
		&loan.Loan{},
		&identity.User{},
		&chase.Exception{},
		&chase.Communication{},
		&chase.Document{},
		&chase.AuditLog{},
		&notify.Notification{},
	))

	return db
}

// seedLoan creates an organization and a loan for tests that need one
func seedLoan(t *testing.T, db *gorm.DB, loanNumber string) *loan.Loan {
	t.Helper()

	org, err := loan.NewOrganization(loan.DefaultOrganizationName)
	require.NoError(t, err)
	require.NoError(t, db.Save(org).Error)

	ln, err := loan.NewLoan(org.ID, loanNumber, "John Doe", "john.doe@example.com")
	require.NoError(t, err)
	require.NoError(t, db.Save(ln).Error)

	return ln
}

// seedException creates an exception attached to a fresh loan
func seedException(t *testing.T, db *gorm.DB, loanNumber string) *chase.Exception {
	t.Helper()

	ln := seedLoan(t, db, loanNumber)
	exc, err := chase.NewException(ln.ID, chase.ExceptionTypeMissingDocument, chase.DocumentTypeBankStatement, "Missing statement", chase.SeverityHigh)
	require.NoError(t, err)
	require.NoError(t, db.Omit("Loan", "AssignedTo").Create(exc).Error)

	return exc
}
