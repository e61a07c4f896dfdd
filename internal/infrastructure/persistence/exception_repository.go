package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"github.com/meda/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormExceptionRepository implements chase.ExceptionRepository using GORM
type GormExceptionRepository struct {
	db *gorm.DB
}

// NewGormExceptionRepository creates a new GormExceptionRepository
func NewGormExceptionRepository(db *gorm.DB) *GormExceptionRepository {
	return &GormExceptionRepository{db: db}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// FindByID finds an exception without preloading relations
func (r *GormExceptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*chase.Exception, error) {
	var exc chase.Exception
	if err := r.db.WithContext(ctx).First(&exc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &exc, nil
}

// FindWithLoan finds an exception with its loan preloaded
func (r *GormExceptionRepository) FindWithLoan(ctx context.Context, id uuid.UUID) (*chase.Exception, error) {
	var exc chase.Exception
	if err := r.db.WithContext(ctx).
		Preload("Loan").
		First(&exc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &exc, nil
}

// FindDetailed finds an exception with all relations, children newest first
func (r *GormExceptionRepository) FindDetailed(ctx context.Context, id uuid.UUID) (*chase.Exception, error) {
	var exc chase.Exception
	if err := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("AssignedTo").
		Preload("Communications", newestFirst).
		Preload("Documents", newestFirst).
		Preload("AuditLogs", newestFirst).
		First(&exc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &exc, nil
}

// FindAll lists exceptions newest first with loan and assignee preloaded
func (r *GormExceptionRepository) FindAll(ctx context.Context, filter chase.ExceptionFilter) ([]chase.Exception, error) {
	query := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("AssignedTo").
		Order("created_at DESC")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.LoanID != nil {
		query = query.Where("loan_id = ?", *filter.LoanID)
	}

	var exceptions []chase.Exception
	if err := query.Find(&exceptions).Error; err != nil {
		return nil, err
	}
	return exceptions, nil
}

// Create persists a new exception and its creation audit entry atomically
func (r *GormExceptionRepository) Create(ctx context.Context, exc *chase.Exception, audit *chase.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Loan", "AssignedTo").Create(exc).Error; err != nil {
			return err
		}
		return tx.Create(audit).Error
	})
}

// Save updates an existing exception
func (r *GormExceptionRepository) Save(ctx context.Context, exc *chase.Exception) error {
	return r.db.WithContext(ctx).Omit("Loan", "AssignedTo", "Communications", "Documents", "AuditLogs").Save(exc).Error
}

// SaveWithAudit updates an exception and appends an audit entry atomically
func (r *GormExceptionRepository) SaveWithAudit(ctx context.Context, exc *chase.Exception, audit *chase.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Loan", "AssignedTo", "Communications", "Documents", "AuditLogs").Save(exc).Error; err != nil {
			return err
		}
		return tx.Create(audit).Error
	})
}

// RecordContact persists the chase outcome: the communication row and the
// status update land together or not at all.
func (r *GormExceptionRepository) RecordContact(ctx context.Context, exc *chase.Exception, comm *chase.Communication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Exception").Create(comm).Error; err != nil {
			return err
		}
		return tx.Omit("Loan", "AssignedTo", "Communications", "Documents", "AuditLogs").Save(exc).Error
	})
}

// AttachDocument persists an uploaded document, the status update and the
// audit entry in one transaction
func (r *GormExceptionRepository) AttachDocument(ctx context.Context, exc *chase.Exception, doc *chase.Document, audit *chase.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		return tx.Omit("Loan", "AssignedTo", "Communications", "Documents", "AuditLogs").Save(exc).Error
	})
}

// DeleteAll removes all exceptions
func (r *GormExceptionRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&chase.Exception{}).Error
}
