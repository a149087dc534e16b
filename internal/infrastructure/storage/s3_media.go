// Package storage provides media host implementations for product images.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ catalogapp.MediaHost = (*S3MediaHost)(nil)

// S3MediaHost stores product images in an S3-compatible bucket (AWS S3, MinIO, etc.)
// and serves them from a public base URL.
type S3MediaHost struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	newKey        func() string
	logger        *zap.Logger
}

// S3MediaHostOption is a functional option for configuring S3MediaHost
type S3MediaHostOption func(*S3MediaHost)

// WithLogger sets a custom logger for S3MediaHost
func WithLogger(logger *zap.Logger) S3MediaHostOption {
	return func(s *S3MediaHost) {
		s.logger = logger
	}
}

// NewS3MediaHost creates an S3MediaHost from configuration.
// Static credentials are used when both keys are set, otherwise the default AWS chain applies.
func NewS3MediaHost(ctx context.Context, cfg config.S3Config, opts ...S3MediaHostOption) (*S3MediaHost, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("media bucket is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.New("media access key id and secret access key must be set together")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid media endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		switch {
		case endpoint != "":
			publicBaseURL = endpoint + "/" + cfg.Bucket
		default:
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	host := &S3MediaHost{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		newKey:        uuid.NewString,
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(host)
	}

	return host, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3MediaHost) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating media bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Upload stores the image under {folder}/{uuid}{ext} and returns its public URL
func (s *S3MediaHost) Upload(ctx context.Context, folder, filename string, body io.Reader) (string, error) {
	if body == nil {
		return "", errors.New("image body is required")
	}

	// The SDK needs a seekable body to sign the payload.
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	key := s.objectKey(folder, filename)
	ext := strings.ToLower(path.Ext(filename))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Uploaded image to bucket",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)))

	return s.publicURL(key), nil
}

func (s *S3MediaHost) objectKey(folder, filename string) string {
	key := s.newKey() + strings.ToLower(path.Ext(filename))
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return key
	}
	return folder + "/" + key
}

func (s *S3MediaHost) publicURL(key string) string {
	return s.publicBaseURL + "/" + key
}

// Bucket returns the bucket name
func (s *S3MediaHost) Bucket() string {
	return s.bucket
}
