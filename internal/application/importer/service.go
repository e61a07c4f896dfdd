package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/meda/backend/internal/domain/notify"
	"github.com/meda/backend/internal/domain/shared"
	"github.com/meda/backend/internal/infrastructure/csvimport"
	"go.uber.org/zap"
)

// requiredColumns must all be present in the CSV header
var requiredColumns = []string{"loan_number", "borrower_name", "borrower_email"}

// ExceptionCreator creates exceptions and schedules their chase loop
type ExceptionCreator interface {
	Create(ctx context.Context, req appchase.CreateExceptionRequest) (*appchase.ExceptionResponse, error)
}

// Notifier appends an operator-inbox notification
type Notifier interface {
	Create(ctx context.Context, title, message string, nType notify.NotificationType) (*notify.Notification, error)
}

// Result summarizes a completed import
type Result struct {
	Imported   int                          `json:"imported"`
	Exceptions []appchase.ExceptionResponse `json:"exceptions"`
}

// Service imports loan exceptions from a CSV file. Each row is a flagged
// problem on a loan; loans are created on first sight and matched by loan
// number afterwards.
type Service struct {
	organizations loan.OrganizationRepository
	loans         loan.LoanRepository
	exceptions    ExceptionCreator
	notifier      Notifier
	logger        *zap.Logger
}

// NewService creates a new import Service
func NewService(
	organizations loan.OrganizationRepository,
	loans loan.LoanRepository,
	exceptions ExceptionCreator,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		organizations: organizations,
		loans:         loans,
		exceptions:    exceptions,
		notifier:      notifier,
		logger:        logger,
	}
}

// Import parses the CSV and creates one exception per row, sequentially. The
// first bad row aborts the whole import; rows already processed stay created.
// On success one notification carries the created count.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	parser, err := csvimport.NewParser(r)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CSV", err.Error())
	}

	if missing := parser.MissingColumns(requiredColumns...); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_CSV",
			fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CSV", err.Error())
	}

	org, err := s.ensureDefaultOrganization(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Exceptions: make([]appchase.ExceptionResponse, 0, len(rows))}
	for _, row := range rows {
		exc, err := s.importRow(ctx, org, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.Line, err)
		}
		result.Exceptions = append(result.Exceptions, *exc)
		result.Imported++
	}

	s.logger.Info("csv import completed", zap.Int("imported", result.Imported))

	if _, err := s.notifier.Create(ctx, "Import complete",
		fmt.Sprintf("%d exceptions imported", result.Imported), notify.TypeSuccess); err != nil {
		s.logger.Warn("failed to create import notification", zap.Error(err))
	}

	return result, nil
}

func (s *Service) importRow(ctx context.Context, org *loan.Organization, row *csvimport.Row) (*appchase.ExceptionResponse, error) {
	ln, err := s.findOrCreateLoan(ctx, org, row)
	if err != nil {
		return nil, err
	}

	return s.exceptions.Create(ctx, appchase.CreateExceptionRequest{
		LoanID:        ln.ID,
		ExceptionType: row.GetOrDefault("exception_type", "MISSING_DOCUMENT"),
		DocumentType:  row.GetOrDefault("document_type", "OTHER"),
		Description:   row.Get("description"),
		Severity:      row.GetOrDefault("severity", "MEDIUM"),
	})
}

func (s *Service) findOrCreateLoan(ctx context.Context, org *loan.Organization, row *csvimport.Row) (*loan.Loan, error) {
	loanNumber := row.Get("loan_number")

	ln, err := s.loans.FindByLoanNumber(ctx, loanNumber)
	if err == nil {
		return ln, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	ln, err = loan.NewLoan(org.ID, loanNumber, row.Get("borrower_name"), row.Get("borrower_email"))
	if err != nil {
		return nil, err
	}
	if err := s.loans.Save(ctx, ln); err != nil {
		return nil, err
	}
	return ln, nil
}

func (s *Service) ensureDefaultOrganization(ctx context.Context) (*loan.Organization, error) {
	org, err := s.organizations.FindFirst(ctx)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	org, err = loan.NewOrganization(loan.DefaultOrganizationName)
	if err != nil {
		return nil, err
	}
	if err := s.organizations.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}
