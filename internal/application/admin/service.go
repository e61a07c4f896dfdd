package admin

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/identity"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const seedDescription = "We need your bank statements for the last 3 months to verify your recent down payment transfer."

// SeedResult identifies the demo records created by Seed
type SeedResult struct {
	ExceptionID uuid.UUID `json:"exception_id"`
	LoanNumber  string    `json:"loan_number"`
}

// Service provides the destructive demo operations: wipe the database and
// plant a known demo scenario. Not exposed outside operator tooling.
type Service struct {
	organizations  loan.OrganizationRepository
	loans          loan.LoanRepository
	users          identity.UserRepository
	exceptions     chase.ExceptionRepository
	communications chase.CommunicationRepository
	documents      chase.DocumentRepository
	auditLogs      chase.AuditLogRepository
	logger         *zap.Logger
}

// NewService creates a new admin Service
func NewService(
	organizations loan.OrganizationRepository,
	loans loan.LoanRepository,
	users identity.UserRepository,
	exceptions chase.ExceptionRepository,
	communications chase.CommunicationRepository,
	documents chase.DocumentRepository,
	auditLogs chase.AuditLogRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		organizations:  organizations,
		loans:          loans,
		users:          users,
		exceptions:     exceptions,
		communications: communications,
		documents:      documents,
		auditLogs:      auditLogs,
		logger:         logger,
	}
}

// Reset wipes every table, children before parents so foreign keys hold
func (s *Service) Reset(ctx context.Context) error {
	s.logger.Warn("admin reset triggered, wiping all data")

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"communications", s.communications.DeleteAll},
		{"audit_logs", s.auditLogs.DeleteAll},
		{"documents", s.documents.DeleteAll},
		{"exceptions", s.exceptions.DeleteAll},
		{"loans", s.loans.DeleteAll},
		{"users", s.users.DeleteAll},
		{"organizations", s.organizations.DeleteAll},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}

	s.logger.Info("database cleared")
	return nil
}

// Seed plants the demo scenario: one organization, one loan for John Doe and
// one open HIGH exception asking for bank statements. Writes go straight
// through the repositories; no chase attempt is scheduled.
func (s *Service) Seed(ctx context.Context) (*SeedResult, error) {
	s.logger.Info("seeding database")

	org, err := loan.NewOrganization(loan.DefaultOrganizationName)
	if err != nil {
		return nil, err
	}
	if err := s.organizations.Save(ctx, org); err != nil {
		return nil, err
	}

	loanNumber := fmt.Sprintf("%d", 1000000+rand.Intn(9000000))
	ln, err := loan.NewLoan(org.ID, loanNumber, "John Doe", "john.doe@example.com")
	if err != nil {
		return nil, err
	}
	ln.SetAmount(decimal.NewFromInt(350000))
	if err := s.loans.Save(ctx, ln); err != nil {
		return nil, err
	}

	exc, err := chase.NewException(ln.ID, chase.ExceptionTypeMissingDocument, chase.DocumentTypeBankStatement, seedDescription, chase.SeverityHigh)
	if err != nil {
		return nil, err
	}
	if err := s.exceptions.Save(ctx, exc); err != nil {
		return nil, err
	}

	s.logger.Info("database seeded",
		zap.String("exception_id", exc.ID.String()),
		zap.String("loan_number", ln.LoanNumber),
	)

	return &SeedResult{ExceptionID: exc.ID, LoanNumber: ln.LoanNumber}, nil
}
