package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/fieldworks/fieldworks-api/internal/config"
)

// S3Backend stores uploads in an S3-compatible bucket.
type S3Backend struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Backend creates an S3 backend from upload configuration.
func NewS3Backend(ctx context.Context, cfg config.S3UploadsConfig, logger zerolog.Logger) (*S3Backend, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Backend{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With().Str("storage", "s3").Logger(),
	}, nil
}

// Store uploads the file content to the bucket.
func (b *S3Backend) Store(ctx context.Context, reader io.Reader, name string, size int64) (string, error) {
	key := path.Base(name)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	b.logger.Debug().Str("bucket", b.bucket).Str("key", key).Msg("stored upload")
	return "/uploads/" + key, nil
}

// Delete removes a stored object. A missing object is not an error in S3.
func (b *S3Backend) Delete(ctx context.Context, name string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path.Base(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// Ensure S3Backend implements Backend
var _ Backend = (*S3Backend)(nil)
