package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/notify"
	"github.com/meda/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notify.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindRecent returns the newest notifications up to limit
func (r *GormNotificationRepository) FindRecent(ctx context.Context, limit int) ([]notify.Notification, error) {
	var notifications []notify.Notification
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notify.Notification, error) {
	var n notify.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// CountUnread counts unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notify.Notification{}).
		Where("read = ?", false).
		Count(&count).Error
	return count, err
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notify.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// MarkAllRead flags every unread notification as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&notify.Notification{}).
		Where("read = ?", false).
		Update("read", true).Error
}
