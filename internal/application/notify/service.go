package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/meda/backend/internal/domain/notify"
)

// DefaultListLimit caps the notification feed
const DefaultListLimit = 10

// NotificationService manages the operator-inbox notifications
type NotificationService struct {
	notifications notify.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications notify.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Create appends a new unread notification
func (s *NotificationService) Create(ctx context.Context, title, message string, nType notify.NotificationType) (*notify.Notification, error) {
	n := notify.NewNotification(title, message, nType)
	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListResult is the notification feed with its unread count
type ListResult struct {
	Notifications []notify.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

// List returns the newest notifications together with the unread count
func (s *NotificationService) List(ctx context.Context, limit int) (*ListResult, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	notifications, err := s.notifications.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notifications.CountUnread(ctx)
	if err != nil {
		return nil, err
	}

	return &ListResult{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead flags one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*notify.Notification, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n.MarkRead()
	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead flags every unread notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.notifications.MarkAllRead(ctx)
}
