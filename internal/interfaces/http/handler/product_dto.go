package handler

import (
	"time"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductListQuery is the query string of GET /products
type ProductListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=hoodie trouser polo roundneck varsity"`
}

// ColorDTO is a named swatch
type ColorDTO struct {
	Name string `json:"name" binding:"required,max=50" example:"Black"`
	Hex  string `json:"hex" binding:"omitempty,hexcolor" example:"#000000"`
}

// ProductRequest is the body of product create and update. Required fields
// and enum membership are checked by the catalog so every field error
// carries the panel's wording.
type ProductRequest struct {
	Name          string     `json:"name" binding:"max=200" example:"Classic Hoodie"`
	Description   string     `json:"description" binding:"max=5000"`
	Category      string     `json:"category" example:"hoodie"`
	Gender        string     `json:"gender" example:"unisex"`
	Price         float64    `json:"price" example:"49.99"`
	DiscountPrice *float64   `json:"discount_price,omitempty" example:"39.99"`
	Sizes         []string   `json:"sizes" example:"S,M,L"`
	Colors        []ColorDTO `json:"colors" binding:"omitempty,max=20,dive"`
	Images        []string   `json:"images"`
	InStock       bool       `json:"in_stock"`
	StockCount    *int       `json:"stock_count,omitempty"`
	Featured      bool       `json:"featured"`
	Customizable  bool       `json:"customizable"`
	Material      *string    `json:"material,omitempty" binding:"omitempty,max=200"`
}

// ProductResponse is a catalog entry
type ProductResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Gender        string     `json:"gender"`
	Price         float64    `json:"price"`
	DiscountPrice *float64   `json:"discount_price,omitempty"`
	Sizes         []string   `json:"sizes"`
	Colors        []ColorDTO `json:"colors"`
	Images        []string   `json:"images"`
	InStock       bool       `json:"in_stock"`
	StockCount    *int       `json:"stock_count,omitempty"`
	Featured      bool       `json:"featured"`
	Customizable  bool       `json:"customizable"`
	Material      *string    `json:"material,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// ImageUploadResponse carries the permanent URL of an uploaded image
type ImageUploadResponse struct {
	URL string `json:"url" example:"https://res.cloudinary.com/shop/image/upload/products/men/classic-hoodie/a.jpg"`
}

// StreamHeartbeat is the payload of the heartbeat event on the product stream
type StreamHeartbeat struct {
	Time time.Time `json:"time"`
}

func (r *ProductRequest) toDomain() *catalog.Product {
	sizes := make([]catalog.Size, len(r.Sizes))
	for i, s := range r.Sizes {
		sizes[i] = catalog.Size(s)
	}
	colors := make([]catalog.Color, len(r.Colors))
	for i, c := range r.Colors {
		colors[i] = catalog.Color{Name: c.Name, Hex: c.Hex}
	}
	images := make([]string, len(r.Images))
	copy(images, r.Images)

	return &catalog.Product{
		Name:          r.Name,
		Description:   r.Description,
		Category:      catalog.Category(r.Category),
		Gender:        catalog.Gender(r.Gender),
		Price:         decimal.NewFromFloat(r.Price),
		DiscountPrice: toDecimalPtr(r.DiscountPrice),
		Sizes:         sizes,
		Colors:        colors,
		Images:        images,
		InStock:       r.InStock,
		StockCount:    r.StockCount,
		Featured:      r.Featured,
		Customizable:  r.Customizable,
		Material:      r.Material,
	}
}

func toProductResponse(p *catalog.Product) ProductResponse {
	sizes := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = string(s)
	}
	colors := make([]ColorDTO, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = ColorDTO{Name: c.Name, Hex: c.Hex}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      string(p.Category),
		Gender:        string(p.Gender),
		Price:         p.Price.InexactFloat64(),
		DiscountPrice: fromDecimalPtr(p.DiscountPrice),
		Sizes:         sizes,
		Colors:        colors,
		Images:        images,
		InStock:       p.InStock,
		StockCount:    p.StockCount,
		Featured:      p.Featured,
		Customizable:  p.Customizable,
		Material:      p.Material,
		CreatedAt:     optionalTime(p.CreatedAt),
		UpdatedAt:     optionalTime(p.UpdatedAt),
	}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}
