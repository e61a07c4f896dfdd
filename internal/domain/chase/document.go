package chase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is a file uploaded by the borrower through the portal in response
// to a chase message.
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExceptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"exception_id"`
	FileName    string    `gorm:"type:varchar(500);not null" json:"file_name"`
	FileType    string    `gorm:"type:varchar(100);not null" json:"file_type"`
	FileSize    int64     `gorm:"not null" json:"file_size"`
	StorageKey  string    `gorm:"type:varchar(500);not null" json:"storage_key"`
	StorageURL  string    `gorm:"type:varchar(1000);not null" json:"storage_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument records an uploaded borrower file
func NewDocument(exceptionID uuid.UUID, fileName, fileType string, fileSize int64, storageKey, storageURL string) *Document {
	return &Document{
		ID:          uuid.New(),
		ExceptionID: exceptionID,
		FileName:    fileName,
		FileType:    fileType,
		FileSize:    fileSize,
		StorageKey:  storageKey,
		StorageURL:  storageURL,
		CreatedAt:   time.Now(),
	}
}

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// DeleteAll removes all documents (admin reset)
	DeleteAll(ctx context.Context) error
}
