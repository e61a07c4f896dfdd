// Package storage provides blob storage implementations for borrower
// document uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	appchase "github.com/meda/backend/internal/application/chase"
	"go.uber.org/zap"
)

// Ensure LocalBlobStore implements BlobStore
var _ appchase.BlobStore = (*LocalBlobStore)(nil)

// LocalBlobStore writes uploads to a directory on disk. Files are served
// back by the HTTP layer under urlPrefix.
type LocalBlobStore struct {
	dir       string
	urlPrefix string
	logger    *zap.Logger
}

// NewLocalBlobStore creates a disk-backed blob store rooted at dir
func NewLocalBlobStore(dir, urlPrefix string, logger *zap.Logger) (*LocalBlobStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalBlobStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

// Save writes one upload to disk. The key embeds a random prefix so repeated
// uploads of the same file name never collide.
func (s *LocalBlobStore) Save(ctx context.Context, fileName, contentType string, size int64, r io.Reader) (*appchase.StoredBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := blobKey(fileName)
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("write upload: %w", err)
	}

	s.logger.Debug("Stored upload on disk",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("bytes", written))

	return &appchase.StoredBlob{
		Key: key,
		URL: s.urlPrefix + "/" + key,
	}, nil
}

// blobKey builds the storage key for one upload. The file name is reduced to
// its base so path traversal in user-supplied names cannot escape the root.
func blobKey(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return uuid.NewString() + "/" + base
}
