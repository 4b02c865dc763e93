package pagination

const (
	// DefaultSize is applied when the caller does not specify a page size.
	DefaultSize = 20
	// MaxSize bounds a single history page.
	MaxSize = 100
)

// OffsetRequest represents an offset-based pagination request.
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"size" query:"limit"`
}

// Normalize clamps page and size into their valid ranges.
func (r *OffsetRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
}

// Offset returns the row offset for the normalized request.
func (r OffsetRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// OffsetResult is one page of items plus enough bookkeeping to iterate.
type OffsetResult[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	HasMore bool  `json:"hasMore"`
}

// NewOffsetResult assembles a page result.
func NewOffsetResult[T any](items []T, total int64, page, size int) *OffsetResult[T] {
	offset := (page - 1) * size
	return &OffsetResult[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		Size:    size,
		HasMore: int64(offset+size) < total,
	}
}
