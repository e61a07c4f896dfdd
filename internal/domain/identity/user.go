package identity

import (
	"context"

	"github.com/meda/backend/internal/domain/shared"
)

// User is a loan processor who can be assigned exceptions. The API is
// unauthenticated; users exist only so exceptions can carry an assignee.
type User struct {
	shared.BaseEntity
	Name  string `gorm:"type:varchar(200);not null" json:"name"`
	Email string `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	Role  string `gorm:"type:varchar(50);not null;default:'processor'" json:"role"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// DeleteAll removes all users (admin reset)
	DeleteAll(ctx context.Context) error
}
