package models

import (
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/catalog"
)

// ProductModel is a document of the products collection
type ProductModel struct {
	Name          string   `firestore:"name"`
	Description   string   `firestore:"description"`
	Category      string   `firestore:"category"`
	Gender        string   `firestore:"gender"`
	Price         any      `firestore:"price"`
	DiscountPrice any      `firestore:"discountPrice"`
	Sizes         []string `firestore:"sizes"`
	Colors        []any    `firestore:"colors"`
	Images        []string `firestore:"images"`
	InStock       bool     `firestore:"inStock"`
	StockCount    any      `firestore:"stockCount"`
	Featured      bool     `firestore:"featured"`
	Customizable  bool     `firestore:"customizable"`
	Material      any      `firestore:"material"`
	CreatedAt     any      `firestore:"createdAt"`
	UpdatedAt     any      `firestore:"updatedAt"`
}

// ToDomain converts the document
func (m *ProductModel) ToDomain(id string) catalog.Product {
	p := catalog.Product{
		ID:           id,
		Name:         m.Name,
		Description:  m.Description,
		Category:     catalog.Category(strings.ToLower(m.Category)),
		Gender:       catalog.Gender(strings.ToLower(m.Gender)),
		Price:        Decimal(m.Price),
		Images:       m.Images,
		InStock:      m.InStock,
		StockCount:   IntPtr(m.StockCount),
		Featured:     m.Featured,
		Customizable: m.Customizable,
		CreatedAt:    Time(m.CreatedAt),
		UpdatedAt:    Time(m.UpdatedAt),
	}
	if d, _ := DecimalPtr(m.DiscountPrice); d != nil {
		p.DiscountPrice = d
	}
	if s := strings.TrimSpace(String(m.Material)); s != "" {
		p.Material = &s
	}
	p.Sizes = make([]catalog.Size, 0, len(m.Sizes))
	for _, s := range m.Sizes {
		p.Sizes = append(p.Sizes, catalog.Size(strings.ToUpper(s)))
	}
	p.Colors = make([]catalog.Color, 0, len(m.Colors))
	for _, c := range m.Colors {
		if color, ok := colorOf(c); ok {
			p.Colors = append(p.Colors, color)
		}
	}
	return p
}

func colorOf(v any) (catalog.Color, bool) {
	switch c := v.(type) {
	case string:
		return catalog.Color{Name: c}, c != ""
	case map[string]any:
		return catalog.Color{Name: String(c["name"]), Hex: String(c["hex"])}, true
	}
	return catalog.Color{}, false
}

// ProductFields returns the stored fields of p. When forUpdate is set,
// cleared optional fields map to firestore.Delete so a merge removes them,
// and createdAt is left untouched.
func ProductFields(p *catalog.Product, forUpdate bool) map[string]any {
	sizes := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = string(s)
	}
	colors := make([]map[string]any, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = map[string]any{"name": c.Name, "hex": c.Hex}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	fields := map[string]any{
		"name":         p.Name,
		"description":  p.Description,
		"category":     string(p.Category),
		"gender":       string(p.Gender),
		"price":        Float(p.Price),
		"sizes":        sizes,
		"colors":       colors,
		"images":       images,
		"inStock":      p.InStock,
		"featured":     p.Featured,
		"customizable": p.Customizable,
		"updatedAt":    p.UpdatedAt,
	}
	if !forUpdate {
		fields["createdAt"] = p.CreatedAt
	}

	optional := map[string]any{}
	if p.DiscountPrice != nil {
		optional["discountPrice"] = Float(*p.DiscountPrice)
	}
	if p.StockCount != nil {
		optional["stockCount"] = *p.StockCount
	}
	if p.Material != nil {
		optional["material"] = *p.Material
	}
	for _, key := range []string{"discountPrice", "stockCount", "material"} {
		if v, ok := optional[key]; ok {
			fields[key] = v
		} else if forUpdate {
			fields[key] = firestore.Delete
		}
	}
	return fields
}
