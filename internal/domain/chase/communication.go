package chase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CommChannel is the delivery channel of a communication
type CommChannel string

const (
	ChannelEmail  CommChannel = "EMAIL"
	ChannelSMS    CommChannel = "SMS"
	ChannelPortal CommChannel = "PORTAL"
)

// CommDirection distinguishes outbound chase messages from borrower replies
type CommDirection string

const (
	DirectionOutbound CommDirection = "OUTBOUND"
	DirectionInbound  CommDirection = "INBOUND"
)

// MessageType classifies the intent of a communication
type MessageType string

const (
	MessageTypeDocumentRequest MessageType = "DOCUMENT_REQUEST"
	MessageTypeReminder        MessageType = "REMINDER"
	MessageTypeEscalation      MessageType = "ESCALATION"
	MessageTypeConfirmation    MessageType = "CONFIRMATION"
	MessageTypeRejection       MessageType = "REJECTION"
	MessageTypeInitialRequest  MessageType = "INITIAL_REQUEST"
)

// Communication is an immutable log row recording one message to or from a
// borrower. Exactly one row is written per successful chase-loop send; rows
// are never updated afterwards.
type Communication struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ExceptionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"exception_id"`
	Exception   *Exception    `gorm:"foreignKey:ExceptionID" json:"exception,omitempty"`
	Channel     CommChannel   `gorm:"type:varchar(10);not null" json:"channel"`
	Direction   CommDirection `gorm:"type:varchar(10);not null" json:"direction"`
	MessageType MessageType   `gorm:"type:varchar(20);not null" json:"message_type"`
	Subject     string        `gorm:"type:varchar(500)" json:"subject,omitempty"`
	Body        string        `gorm:"type:text;not null" json:"body"`
	Metadata    string        `gorm:"type:text" json:"metadata,omitempty"`
	SentAt      *time.Time    `json:"sent_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// TableName returns the table name for GORM
func (Communication) TableName() string {
	return "communications"
}

// NewOutboundEmail records a chase email that left (or is leaving) the
// system. Metadata carries the opaque provider response as JSON.
func NewOutboundEmail(exceptionID uuid.UUID, msgType MessageType, subject, body, metadata string, sentAt time.Time) *Communication {
	return &Communication{
		ID:          uuid.New(),
		ExceptionID: exceptionID,
		Channel:     ChannelEmail,
		Direction:   DirectionOutbound,
		MessageType: msgType,
		Subject:     subject,
		Body:        body,
		Metadata:    metadata,
		SentAt:      &sentAt,
		CreatedAt:   time.Now(),
	}
}

// CommunicationRepository defines the interface for communication persistence
type CommunicationRepository interface {
	// FindRecent returns the most recent communications across all exceptions,
	// newest first, with the owning exception and loan preloaded.
	FindRecent(ctx context.Context, limit int) ([]Communication, error)

	// CountOutbound counts OUTBOUND rows of a message type for one exception
	CountOutbound(ctx context.Context, exceptionID uuid.UUID, msgType MessageType) (int64, error)

	// DeleteAll removes all communications (admin reset)
	DeleteAll(ctx context.Context) error
}
