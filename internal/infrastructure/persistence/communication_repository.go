package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/chase"
	"gorm.io/gorm"
)

// GormCommunicationRepository implements chase.CommunicationRepository using GORM
type GormCommunicationRepository struct {
	db *gorm.DB
}

// NewGormCommunicationRepository creates a new GormCommunicationRepository
func NewGormCommunicationRepository(db *gorm.DB) *GormCommunicationRepository {
	return &GormCommunicationRepository{db: db}
}

// FindRecent returns the latest communications with exception and loan preloaded
func (r *GormCommunicationRepository) FindRecent(ctx context.Context, limit int) ([]chase.Communication, error) {
	var comms []chase.Communication
	if err := r.db.WithContext(ctx).
		Preload("Exception").
		Preload("Exception.Loan").
		Order("created_at DESC").
		Limit(limit).
		Find(&comms).Error; err != nil {
		return nil, err
	}
	return comms, nil
}

// CountOutbound counts OUTBOUND rows of a message type for one exception
func (r *GormCommunicationRepository) CountOutbound(ctx context.Context, exceptionID uuid.UUID, msgType chase.MessageType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chase.Communication{}).
		Where("exception_id = ? AND direction = ? AND message_type = ?", exceptionID, chase.DirectionOutbound, msgType).
		Count(&count).Error
	return count, err
}

// DeleteAll removes all communications
func (r *GormCommunicationRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&chase.Communication{}).Error
}

// GormDocumentRepository implements chase.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// DeleteAll removes all documents
func (r *GormDocumentRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&chase.Document{}).Error
}

// GormAuditLogRepository implements chase.AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// DeleteAll removes all audit logs
func (r *GormAuditLogRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&chase.AuditLog{}).Error
}
