package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appchase "github.com/meda/backend/internal/application/chase"
	"go.uber.org/zap"
)

// Ensure S3BlobStore implements BlobStore
var _ appchase.BlobStore = (*S3BlobStore)(nil)

// S3BlobStore stores uploads in an S3-compatible bucket (AWS S3, MinIO, etc.)
type S3BlobStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// S3Options configures the S3BlobStore
type S3Options struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible backends
	Endpoint string
	// PublicURL is the base URL documents are served from. Empty falls back
	// to the virtual-hosted AWS URL.
	PublicURL string
}

// NewS3BlobStore creates an S3-backed blob store. Credentials come from the
// default AWS chain (environment, shared config, instance role).
func NewS3BlobStore(ctx context.Context, opts S3Options, logger *zap.Logger) (*S3BlobStore, error) {
	if opts.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimSuffix(opts.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, region)
	}

	return &S3BlobStore{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: publicURL,
		logger:    logger,
	}, nil
}

// Save uploads one document to the bucket
func (s *S3BlobStore) Save(ctx context.Context, fileName, contentType string, size int64, r io.Reader) (*appchase.StoredBlob, error) {
	key := blobKey(fileName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	s.logger.Debug("Stored upload in S3",
		zap.String("bucket", s.bucket),
		zap.String("key", key))

	return &appchase.StoredBlob{
		Key: key,
		URL: s.publicURL + "/" + key,
	}, nil
}
