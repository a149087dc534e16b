package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ProductService manages the catalog
type ProductService interface {
	List(ctx context.Context, filter catalogapp.ProductFilter) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (*catalog.Product, error)
	Create(ctx context.Context, product *catalog.Product) (*catalog.Product, error)
	Update(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, gender catalog.Gender, productName, filename string, body io.Reader) (string, error)
}

// ProductFeed hands out live catalog subscriptions
type ProductFeed interface {
	Subscribe(ctx context.Context) (*catalogapp.Subscription, error)
}

// ProductRecorder receives catalog activity
type ProductRecorder interface {
	RecordImageUpload(ctx context.Context)
	StreamOpened(ctx context.Context)
	StreamClosed(ctx context.Context)
}

type nopProductRecorder struct{}

func (nopProductRecorder) RecordImageUpload(context.Context) {}
func (nopProductRecorder) StreamOpened(context.Context)      {}
func (nopProductRecorder) StreamClosed(context.Context)      {}

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	BaseHandler
	products  ProductService
	feed      ProductFeed
	recorder  ProductRecorder
	heartbeat time.Duration
}

// ProductHandlerOption is a functional option for configuring the handler
type ProductHandlerOption func(*ProductHandler)

// WithStreamHeartbeat sets the heartbeat interval of the product stream
func WithStreamHeartbeat(interval time.Duration) ProductHandlerOption {
	return func(h *ProductHandler) {
		if interval > 0 {
			h.heartbeat = interval
		}
	}
}

// WithProductRecorder installs a catalog activity recorder
func WithProductRecorder(r ProductRecorder) ProductHandlerOption {
	return func(h *ProductHandler) {
		if r != nil {
			h.recorder = r
		}
	}
}

// NewProductHandler creates a new product handler
func NewProductHandler(products ProductService, feed ProductFeed, opts ...ProductHandlerOption) *ProductHandler {
	h := &ProductHandler{
		products:  products,
		feed:      feed,
		recorder:  nopProductRecorder{},
		heartbeat: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// List handles GET /products
// List products, newest first, optionally filtered by category and a name or
// category search
func (h *ProductHandler) List(c *gin.Context) {
	var query ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	products, err := h.products.List(c.Request.Context(), catalogapp.ProductFilter{
		Search:   query.Search,
		Category: catalog.Category(query.Category),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(toProductResponses(products), len(products)))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toProductResponse(product))
}

// Update handles PUT /products/:id
// Replace a product's fields. The creation time is kept.
func (h *ProductHandler) Update(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UploadImage handles POST /products/images
// Store an image under products/{gender}/{slug of name} and return its
// permanent URL
func (h *ProductHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "Image exceeds maximum allowed size")
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "An image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	url, err := h.products.UploadImage(ctx,
		catalog.Gender(c.PostForm("gender")),
		c.PostForm("name"),
		fileHeader.Filename,
		file,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.recorder.RecordImageUpload(ctx)

	h.Created(c, ImageUploadResponse{URL: url})
}

// Stream handles GET /products/stream
// Server-Sent Events. A snapshot event carries the full product list on
// connect and after every change; heartbeat events keep idle connections open.
func (h *ProductHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	sub, err := h.feed.Subscribe(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer sub.Unsubscribe()

	h.recorder.StreamOpened(ctx)
	defer h.recorder.StreamClosed(context.WithoutCancel(ctx))

	log := logger.GetGinLogger(c)
	log.Debug("Product stream opened", zap.Duration("heartbeat", h.heartbeat))
	defer log.Debug("Product stream closed")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snapshot, ok := <-sub.Updates():
			if !ok {
				log.Info("Product feed stopped, closing stream")
				return false
			}
			c.SSEvent("snapshot", toProductResponses(snapshot))
			return true
		case t := <-heartbeat.C:
			c.SSEvent("heartbeat", StreamHeartbeat{Time: t.UTC()})
			return true
		}
	})
}
