package chase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one append-only entry in an exception's state-change trail.
type AuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExceptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"exception_id"`
	Action      string    `gorm:"type:varchar(100);not null" json:"action"`
	Details     string    `gorm:"type:text;not null;default:'{}'" json:"details"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates an audit entry. Details must be a JSON document;
// callers usually build it with AuditDetails.
func NewAuditLog(exceptionID uuid.UUID, action, details string) *AuditLog {
	if details == "" {
		details = "{}"
	}
	return &AuditLog{
		ID:          uuid.New(),
		ExceptionID: exceptionID,
		Action:      action,
		Details:     details,
		CreatedAt:   time.Now(),
	}
}

// AuditDetails serializes a detail map to the JSON stored in Details.
// Serialization of a flat string map cannot fail, so the error is ignored.
func AuditDetails(kv map[string]string) string {
	if len(kv) == 0 {
		return "{}"
	}
	b, _ := json.Marshal(kv)
	return string(b)
}

// AuditLogRepository defines the interface for audit log persistence. Audit
// entries are written through ExceptionRepository transactions and read
// through detail-view preloads, so only the admin wipe lives here.
type AuditLogRepository interface {
	// DeleteAll removes all audit logs (admin reset)
	DeleteAll(ctx context.Context) error
}
