package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ catalogapp.MediaHost = (*CloudinaryMediaHost)(nil)

const defaultCloudinaryBaseURL = "https://api.cloudinary.com"

// CloudinaryMediaHost uploads product images with Cloudinary's unsigned upload API
type CloudinaryMediaHost struct {
	client       *resty.Client
	cloudName    string
	uploadPreset string
	logger       *zap.Logger
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type cloudinaryErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCloudinaryMediaHost creates a Cloudinary media host.
// Uploads are bounded by timeout and never retried.
func NewCloudinaryMediaHost(cfg config.CloudinaryConfig, timeout time.Duration, logger *zap.Logger) (*CloudinaryMediaHost, error) {
	if cfg.CloudName == "" {
		return nil, errors.New("cloudinary cloud name is required")
	}
	if cfg.UploadPreset == "" {
		return nil, errors.New("cloudinary upload preset is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCloudinaryBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &CloudinaryMediaHost{
		client:       client,
		cloudName:    cfg.CloudName,
		uploadPreset: cfg.UploadPreset,
		logger:       logger,
	}, nil
}

// Upload posts the image as multipart form data and returns its secure URL
func (c *CloudinaryMediaHost) Upload(ctx context.Context, folder, filename string, body io.Reader) (string, error) {
	if body == nil {
		return "", errors.New("image body is required")
	}

	var result cloudinaryUploadResponse
	var apiErr cloudinaryErrorResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, body).
		SetFormData(map[string]string{
			"upload_preset": c.uploadPreset,
			"folder":        folder,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1_1/%s/image/upload", c.cloudName))
	if err != nil {
		return "", fmt.Errorf("cloudinary upload request failed: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		c.logger.Warn("Cloudinary rejected upload",
			zap.Int("status", resp.StatusCode()),
			zap.String("folder", folder),
			zap.String("message", msg))
		return "", fmt.Errorf("cloudinary upload failed: %s", msg)
	}

	if result.SecureURL == "" {
		return "", errors.New("cloudinary response did not include secure_url")
	}

	c.logger.Debug("Uploaded image to Cloudinary",
		zap.String("folder", folder),
		zap.String("public_id", result.PublicID))

	return result.SecureURL, nil
}
