package storage

import (
	"context"
	"fmt"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewMediaHost builds the media host selected by media.provider
func NewMediaHost(ctx context.Context, cfg config.MediaConfig, logger *zap.Logger) (catalogapp.MediaHost, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case "", "cloudinary":
		return NewCloudinaryMediaHost(cfg.Cloudinary, cfg.Timeout, logger)
	case "s3":
		host, err := NewS3MediaHost(ctx, cfg.S3, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := host.EnsureBucket(ctx); err != nil {
			logger.Warn("Media bucket check failed, uploads may fail",
				zap.String("bucket", host.Bucket()),
				zap.Error(err))
		}
		return host, nil
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}
