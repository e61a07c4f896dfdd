package loan

import (
	"context"

	"github.com/meda/backend/internal/domain/shared"
)

// DefaultOrganizationName is used when the import path has to create the
// single-tenant fallback organization.
const DefaultOrganizationName = "Default Bank Corp"

// Organization is the tenant that owns loans. The system currently runs
// single-tenant: imports attach everything to one default organization.
type Organization struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	Settings string `gorm:"type:text;not null;default:'{}'" json:"settings"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates an organization
func NewOrganization(name string) (*Organization, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	return &Organization{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Settings:   "{}",
	}, nil
}

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// FindFirst returns any existing organization, or shared.ErrNotFound
	// when the table is empty.
	FindFirst(ctx context.Context) (*Organization, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error

	// DeleteAll removes all organizations (admin reset)
	DeleteAll(ctx context.Context) error
}
