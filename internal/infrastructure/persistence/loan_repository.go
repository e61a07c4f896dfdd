package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/loan"
	"github.com/meda/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLoanRepository implements loan.LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	var ln loan.Loan
	if err := r.db.WithContext(ctx).First(&ln, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ln, nil
}

// FindByLoanNumber finds a loan by its natural key
func (r *GormLoanRepository) FindByLoanNumber(ctx context.Context, loanNumber string) (*loan.Loan, error) {
	var ln loan.Loan
	if err := r.db.WithContext(ctx).First(&ln, "loan_number = ?", loanNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ln, nil
}

// Save creates or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, ln *loan.Loan) error {
	return r.db.WithContext(ctx).Save(ln).Error
}

// DeleteAll removes all loans
func (r *GormLoanRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&loan.Loan{}).Error
}

// GormOrganizationRepository implements loan.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindFirst returns any existing organization
func (r *GormOrganizationRepository) FindFirst(ctx context.Context) (*loan.Organization, error) {
	var org loan.Organization
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// Save creates or updates an organization
func (r *GormOrganizationRepository) Save(ctx context.Context, org *loan.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// DeleteAll removes all organizations
func (r *GormOrganizationRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&loan.Organization{}).Error
}
