package shared

// DefaultPageSize is used when a caller does not ask for a page size
const DefaultPageSize = 10

// MaxPageSize caps page sizes accepted from callers
const MaxPageSize = 100

// Page describes a 1-based page request
type Page struct {
	Page     int
	PageSize int
}

// Normalize clamps the page request to valid bounds
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Paginate slices an in-memory result set. Pages past the end yield an empty slice.
func Paginate[T any](all []T, p Page) Paginated[T] {
	p = p.Normalize()
	start := (p.Page - 1) * p.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + p.PageSize
	if end > len(all) {
		end = len(all)
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewPaginated(items, int64(len(all)), p.Page, p.PageSize)
}
