package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/meda/backend/internal/domain/notify"
	"github.com/meda/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrganizationRepository is a mock implementation of loan.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindFirst(ctx context.Context) (*loan.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *loan.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLoanRepository is a mock implementation of loan.LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindByLoanNumber(ctx context.Context, loanNumber string) (*loan.Loan, error) {
	args := m.Called(ctx, loanNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) Save(ctx context.Context, ln *loan.Loan) error {
	args := m.Called(ctx, ln)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockExceptionCreator is a mock implementation of ExceptionCreator
type MockExceptionCreator struct {
	mock.Mock
}

func (m *MockExceptionCreator) Create(ctx context.Context, req appchase.CreateExceptionRequest) (*appchase.ExceptionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appchase.ExceptionResponse), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Create(ctx context.Context, title, message string, nType notify.NotificationType) (*notify.Notification, error) {
	args := m.Called(ctx, title, message, nType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notify.Notification), args.Error(1)
}

func testOrganization(t *testing.T) *loan.Organization {
	t.Helper()
	org, err := loan.NewOrganization(loan.DefaultOrganizationName)
	require.NoError(t, err)
	return org
}

func TestService_Import_CreatesLoansAndExceptions(t *testing.T) {
	org := testOrganization(t)

	orgs := new(MockOrganizationRepository)
	loans := new(MockLoanRepository)
	creator := new(MockExceptionCreator)
	notifier := new(MockNotifier)

	orgs.On("FindFirst", mock.Anything).Return(org, nil)
	loans.On("FindByLoanNumber", mock.Anything, "LN-1001").Return(nil, shared.ErrNotFound)
	loans.On("Save", mock.Anything, mock.MatchedBy(func(ln *loan.Loan) bool {
		return ln.LoanNumber == "LN-1001" && ln.BorrowerEmail == "john@example.com" && ln.OrganizationID == org.ID
	})).Return(nil)
	creator.On("Create", mock.Anything, mock.MatchedBy(func(req appchase.CreateExceptionRequest) bool {
		return req.ExceptionType == "MISSING_DOCUMENT" && req.DocumentType == "BANK_STATEMENT" && req.Severity == "HIGH"
	})).Return(&appchase.ExceptionResponse{ID: uuid.New(), Status: "OPEN"}, nil)
	notifier.On("Create", mock.Anything, "Import complete", "1 exceptions imported", notify.TypeSuccess).
		Return(notify.NewNotification("Import complete", "1 exceptions imported", notify.TypeSuccess), nil)

	csv := strings.Join([]string{
		"loan_number,borrower_name,borrower_email,exception_type,document_type,description,severity",
		"LN-1001,John Doe,john@example.com,MISSING_DOCUMENT,BANK_STATEMENT,Missing January statement,HIGH",
	}, "\n")

	svc := NewService(orgs, loans, creator, notifier, zap.NewNop())
	result, err := svc.Import(context.Background(), strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, result.Exceptions, 1)
	orgs.AssertExpectations(t)
	loans.AssertExpectations(t)
	creator.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Import_ReusesExistingLoan(t *testing.T) {
	org := testOrganization(t)
	existing, err := loan.NewLoan(org.ID, "LN-1001", "John Doe", "john@example.com")
	require.NoError(t, err)

	orgs := new(MockOrganizationRepository)
	loans := new(MockLoanRepository)
	creator := new(MockExceptionCreator)
	notifier := new(MockNotifier)

	orgs.On("FindFirst", mock.Anything).Return(org, nil)
	loans.On("FindByLoanNumber", mock.Anything, "LN-1001").Return(existing, nil)
	creator.On("Create", mock.Anything, mock.MatchedBy(func(req appchase.CreateExceptionRequest) bool {
		return req.LoanID == existing.ID && req.DocumentType == "OTHER" && req.Severity == "MEDIUM"
	})).Return(&appchase.ExceptionResponse{ID: uuid.New()}, nil)
	notifier.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notify.NewNotification("Import complete", "", notify.TypeSuccess), nil)

	csv := "loan_number,borrower_name,borrower_email\nLN-1001,John Doe,john@example.com\n"

	svc := NewService(orgs, loans, creator, notifier, zap.NewNop())
	result, err := svc.Import(context.Background(), strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	loans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Import_CreatesDefaultOrganization(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	loans := new(MockLoanRepository)
	creator := new(MockExceptionCreator)
	notifier := new(MockNotifier)

	orgs.On("FindFirst", mock.Anything).Return(nil, shared.ErrNotFound)
	orgs.On("Save", mock.Anything, mock.MatchedBy(func(org *loan.Organization) bool {
		return org.Name == loan.DefaultOrganizationName
	})).Return(nil)
	loans.On("FindByLoanNumber", mock.Anything, "LN-1").Return(nil, shared.ErrNotFound)
	loans.On("Save", mock.Anything, mock.Anything).Return(nil)
	creator.On("Create", mock.Anything, mock.Anything).Return(&appchase.ExceptionResponse{ID: uuid.New()}, nil)
	notifier.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notify.NewNotification("Import complete", "", notify.TypeSuccess), nil)

	csv := "loan_number,borrower_name,borrower_email\nLN-1,Jane,jane@example.com\n"

	svc := NewService(orgs, loans, creator, notifier, zap.NewNop())
	_, err := svc.Import(context.Background(), strings.NewReader(csv))

	require.NoError(t, err)
	orgs.AssertExpectations(t)
}

func TestService_Import_MissingRequiredColumns(t *testing.T) {
	svc := NewService(new(MockOrganizationRepository), new(MockLoanRepository), new(MockExceptionCreator), new(MockNotifier), zap.NewNop())

	_, err := svc.Import(context.Background(), strings.NewReader("loan_number,description\nLN-1,missing doc\n"))

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CSV", domainErr.Code)
	assert.Contains(t, domainErr.Message, "borrower_email")
}

func TestService_Import_FirstBadRowAborts(t *testing.T) {
	org := testOrganization(t)

	orgs := new(MockOrganizationRepository)
	loans := new(MockLoanRepository)
	creator := new(MockExceptionCreator)
	notifier := new(MockNotifier)

	orgs.On("FindFirst", mock.Anything).Return(org, nil)
	loans.On("FindByLoanNumber", mock.Anything, "LN-1").Return(nil, shared.ErrNotFound)

	// Row 2 has an empty borrower_email, so loan creation fails.
	csv := "loan_number,borrower_name,borrower_email\nLN-1,John Doe,\nLN-2,Jane,jane@example.com\n"

	svc := NewService(orgs, loans, creator, notifier, zap.NewNop())
	_, err := svc.Import(context.Background(), strings.NewReader(csv))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
