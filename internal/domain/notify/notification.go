package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies operator-inbox entries
type NotificationType string

const (
	TypeInfo    NotificationType = "INFO"
	TypeSuccess NotificationType = "SUCCESS"
	TypeWarning NotificationType = "WARNING"
	TypeError   NotificationType = "ERROR"
)

// Notification is a process-wide operator-inbox entry (e.g. "import
// finished"), independent of any particular exception.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string           `gorm:"type:varchar(200);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(20);not null;default:'INFO'" json:"type"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification. An empty type defaults
// to INFO.
func NewNotification(title, message string, nType NotificationType) *Notification {
	if nType == "" {
		nType = TypeInfo
	}
	return &Notification{
		ID:        uuid.New(),
		Title:     title,
		Message:   message,
		Type:      nType,
		Read:      false,
		CreatedAt: time.Now(),
	}
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	n.Read = true
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// FindRecent returns the newest notifications up to limit
	FindRecent(ctx context.Context, limit int) ([]Notification, error)

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// CountUnread counts unread notifications
	CountUnread(ctx context.Context) (int64, error)

	// Save creates or updates a notification
	Save(ctx context.Context, n *Notification) error

	// MarkAllRead flags every unread notification as read
	MarkAllRead(ctx context.Context) error
}
