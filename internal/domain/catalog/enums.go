package catalog

// Category is the garment category of a product
type Category string

const (
	CategoryHoodie    Category = "hoodie"
	CategoryTrouser   Category = "trouser"
	CategoryPolo      Category = "polo"
	CategoryRoundneck Category = "roundneck"
	CategoryVarsity   Category = "varsity"
)

// Categories lists the categories in display order
var Categories = []Category{CategoryHoodie, CategoryTrouser, CategoryPolo, CategoryRoundneck, CategoryVarsity}

// IsValid reports whether the category is known
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Gender is the target audience of a product
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

// Genders lists the genders in display order
var Genders = []Gender{GenderMen, GenderWomen, GenderUnisex}

// IsValid reports whether the gender is known
func (g Gender) IsValid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex:
		return true
	}
	return false
}

// Size is a garment size
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Sizes lists the sizes from smallest to largest
var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// IsValid reports whether the size is known
func (s Size) IsValid() bool {
	for _, known := range Sizes {
		if s == known {
			return true
		}
	}
	return false
}

// Color is a named swatch offered for a product
type Color struct {
	Name string
	Hex  string
}
