package storage

import (
	"context"
	"fmt"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewBlobStore picks the document store from configuration
func NewBlobStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (appchase.BlobStore, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3BlobStore(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		}, logger)
	case "local", "":
		return NewLocalBlobStore(cfg.LocalDir, cfg.LocalPrefix, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
