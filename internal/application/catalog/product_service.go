package catalog

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrFilenameRequired is returned when an image upload has no file name
var ErrFilenameRequired = shared.NewDomainError("FILENAME_REQUIRED", "Image file name is required")

// ProductFilter selects products for listing
type ProductFilter struct {
	Search   string
	Category catalog.Category
}

// ProductService handles product catalog operations
type ProductService struct {
	repo   catalog.ProductRepository
	media  MediaHost
	logger *zap.Logger
	now    func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(repo catalog.ProductRepository, media MediaHost, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		media:  media,
		logger: logger,
		now:    time.Now,
	}
}

// List returns products matching the filter, newest first
func (s *ProductService) List(ctx context.Context, filter ProductFilter) ([]catalog.Product, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, catalog.ErrInvalidCategory
	}

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]catalog.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if !p.Matches(filter.Search) {
			continue
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates and stores a new product
func (s *ProductService) Create(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	product.ID = ""
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))
	return product, nil
}

// Update replaces an existing product. CreatedAt is preserved.
func (s *ProductService) Update(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error) {
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}

	s.logger.Info("Product updated", zap.String("product_id", id))
	return product, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// UploadImage stores an image under the product's media folder and returns its URL
func (s *ProductService) UploadImage(ctx context.Context, gender catalog.Gender, productName, filename string, body io.Reader) (string, error) {
	if !gender.IsValid() {
		return "", catalog.ErrInvalidGender
	}
	if strings.TrimSpace(productName) == "" {
		return "", catalog.ErrNameRequired
	}
	if strings.TrimSpace(filename) == "" {
		return "", ErrFilenameRequired
	}

	folder := catalog.MediaFolder(gender, productName)
	ctx, span := telemetry.StartSpan(ctx, "product", "upload_image",
		telemetry.AttrMediaFolder.String(folder))
	defer span.End()

	url, err := s.media.Upload(ctx, folder, filename, body)
	if err != nil {
		telemetry.Fail(span, err)
		s.logger.Error("Image upload failed", zap.String("folder", folder), zap.Error(err))
		return "", shared.NewDomainError("UPLOAD_FAILED", "Failed to upload image")
	}

	s.logger.Info("Product image uploaded", zap.String("folder", folder), zap.String("url", url))
	return url, nil
}
