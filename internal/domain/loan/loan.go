package loan

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Loan represents a mortgage loan file imported from the loan origination
// system. LoanNumber is the natural key used to deduplicate on import.
type Loan struct {
	shared.BaseEntity
	LoanNumber     string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"loan_number"`
	BorrowerName   string           `gorm:"type:varchar(200);not null" json:"borrower_name"`
	BorrowerEmail  string           `gorm:"type:varchar(200);not null" json:"borrower_email"`
	LoanAmount     *decimal.Decimal `gorm:"type:decimal(18,2)" json:"loan_amount,omitempty"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loans"
}

// NewLoan creates a loan attached to an organization
func NewLoan(organizationID uuid.UUID, loanNumber, borrowerName, borrowerEmail string) (*Loan, error) {
	loanNumber = strings.TrimSpace(loanNumber)
	if loanNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOAN_NUMBER", "Loan number cannot be empty")
	}
	if borrowerEmail == "" {
		return nil, shared.NewDomainError("INVALID_BORROWER_EMAIL", "Borrower email cannot be empty")
	}
	return &Loan{
		BaseEntity:     shared.NewBaseEntity(),
		LoanNumber:     loanNumber,
		BorrowerName:   borrowerName,
		BorrowerEmail:  strings.ToLower(borrowerEmail),
		OrganizationID: organizationID,
	}, nil
}

// SetAmount sets the loan amount
func (l *Loan) SetAmount(amount decimal.Decimal) {
	l.LoanAmount = &amount
	l.Touch()
}

// LoanRepository defines the interface for loan persistence
type LoanRepository interface {
	// FindByID finds a loan by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)

	// FindByLoanNumber finds a loan by its natural key
	FindByLoanNumber(ctx context.Context, loanNumber string) (*Loan, error)

	// Save creates or updates a loan
	Save(ctx context.Context, loan *Loan) error

	// DeleteAll removes all loans (admin reset)
	DeleteAll(ctx context.Context) error
}
