package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxImages is the number of images a product may reference
const MaxImages = 6

// Product validation errors
var (
	ErrNameRequired    = shared.NewDomainError("NAME_REQUIRED", "Product name is required")
	ErrInvalidPrice    = shared.NewDomainError("INVALID_PRICE", "Please enter a valid price")
	ErrSizesRequired   = shared.NewDomainError("SIZES_REQUIRED", "Please select at least one size")
	ErrImagesRequired  = shared.NewDomainError("IMAGES_REQUIRED", "Please upload at least one image")
	ErrTooManyImages   = shared.NewDomainError("TOO_MANY_IMAGES", "A product can have at most 6 images")
	ErrInvalidCategory = shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	ErrInvalidGender   = shared.NewDomainError("INVALID_GENDER", "Unknown product gender")
	ErrInvalidSize     = shared.NewDomainError("INVALID_SIZE", "Unknown product size")
	ErrInvalidStock    = shared.NewDomainError("INVALID_STOCK", "Stock count cannot be negative")
)

// Product is a storefront catalog entry
type Product struct {
	ID            string
	Name          string
	Description   string
	Category      Category
	Gender        Gender
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Sizes         []Size
	Colors        []Color
	Images        []string
	InStock       bool
	StockCount    *int
	Featured      bool
	Customizable  bool
	Material      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the save-time invariants. It never touches remote state.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.DiscountPrice != nil && p.DiscountPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if !p.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !p.Gender.IsValid() {
		return ErrInvalidGender
	}
	if len(p.Sizes) == 0 {
		return ErrSizesRequired
	}
	for _, s := range p.Sizes {
		if !s.IsValid() {
			return ErrInvalidSize
		}
	}
	if len(p.Images) == 0 {
		return ErrImagesRequired
	}
	if len(p.Images) > MaxImages {
		return ErrTooManyImages
	}
	if p.StockCount != nil && *p.StockCount < 0 {
		return ErrInvalidStock
	}
	return nil
}

// Normalize trims text fields and derives InStock from StockCount when one is given
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Material != nil {
		m := strings.TrimSpace(*p.Material)
		if m == "" {
			p.Material = nil
		} else {
			p.Material = &m
		}
	}
	if p.StockCount != nil {
		p.InStock = *p.StockCount > 0
	}
}

// Matches reports whether the search term hits the name or category
func (p *Product) Matches(search string) bool {
	return shared.MatchesAnyFold(search, p.Name, string(p.Category))
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify turns a product name into a path segment
func Slugify(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// MediaFolder returns the media host folder for a product's images
func MediaFolder(gender Gender, name string) string {
	return "products/" + string(gender) + "/" + Slugify(name)
}
