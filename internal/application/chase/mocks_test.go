package chase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/stretchr/testify/mock"
)

// MockExceptionRepository is a mock implementation of chase.ExceptionRepository
type MockExceptionRepository struct {
	mock.Mock
}

func (m *MockExceptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*chase.Exception, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chase.Exception), args.Error(1)
}

func (m *MockExceptionRepository) FindWithLoan(ctx context.Context, id uuid.UUID) (*chase.Exception, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chase.Exception), args.Error(1)
}

func (m *MockExceptionRepository) FindDetailed(ctx context.Context, id uuid.UUID) (*chase.Exception, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chase.Exception), args.Error(1)
}

func (m *MockExceptionRepository) FindAll(ctx context.Context, filter chase.ExceptionFilter) ([]chase.Exception, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]chase.Exception), args.Error(1)
}

func (m *MockExceptionRepository) Create(ctx context.Context, exc *chase.Exception, audit *chase.AuditLog) error {
	args := m.Called(ctx, exc, audit)
	return args.Error(0)
}

func (m *MockExceptionRepository) Save(ctx context.Context, exc *chase.Exception) error {
	args := m.Called(ctx, exc)
	return args.Error(0)
}

func (m *MockExceptionRepository) SaveWithAudit(ctx context.Context, exc *chase.Exception, audit *chase.AuditLog) error {
	args := m.Called(ctx, exc, audit)
	return args.Error(0)
}

func (m *MockExceptionRepository) RecordContact(ctx context.Context, exc *chase.Exception, comm *chase.Communication) error {
	args := m.Called(ctx, exc, comm)
	return args.Error(0)
}

func (m *MockExceptionRepository) AttachDocument(ctx context.Context, exc *chase.Exception, doc *chase.Document, audit *chase.AuditLog) error {
	args := m.Called(ctx, exc, doc, audit)
	return args.Error(0)
}

func (m *MockExceptionRepository) DeleteAll(ctx context.Context) error {
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

// MockCommunicationRepository is a mock implementation of chase.CommunicationRepository
type MockCommunicationRepository struct {
	mock.Mock
}

func (m *MockCommunicationRepository) FindRecent(ctx context.Context, limit int) ([]chase.Communication, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]chase.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) CountOutbound(ctx context.Context, exceptionID uuid.UUID, msgType chase.MessageType) (int64, error) {
	args := m.Called(ctx, exceptionID, msgType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommunicationRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockComposer is a mock implementation of Composer
type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) Compose(ctx context.Context, exc *chase.Exception, ln *loan.Loan, attemptNumber int) (*Message, error) {
	args := m.Called(ctx, exc, ln, attemptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Message), args.Error(1)
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string, tracking map[string]string) (*SendResult, error) {
	args := m.Called(ctx, to, subject, body, tracking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SendResult), args.Error(1)
}

// MockSendGuard is a mock implementation of SendGuard
type MockSendGuard struct {
	mock.Mock
}

func (m *MockSendGuard) Claim(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, token, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSendGuard) Release(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockBlobStore is a mock implementation of BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Save(ctx context.Context, fileName string, contentType string, size int64, r io.Reader) (*StoredBlob, error) {
	args := m.Called(ctx, fileName, contentType, size, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StoredBlob), args.Error(1)
}

// MockTrigger is a mock implementation of Trigger
type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) Enqueue(exceptionID uuid.UUID) bool {
	args := m.Called(exceptionID)
	return args.Bool(0)
}
