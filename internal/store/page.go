package store

// MaxPageSize caps the number of elements a single page may hold.
const MaxPageSize = 1000

// PageRequest selects a zero-based page of a given size.
type PageRequest struct {
	Page int32 `json:"page" validate:"gte=0"`
	Size int32 `json:"size" validate:"gte=1,lte=1000"`
}

// Offset returns the number of elements preceding the requested page.
func (p PageRequest) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int32 `json:"page"`
	Size          int32 `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int32 `json:"totalPages"`
}

// NewPage builds a page for req holding content out of total matching elements.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	var pages int32
	if req.Size > 0 {
		pages = int32((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// MapPage converts the content of a page, keeping its paging metadata.
func MapPage[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	content := make([]R, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}
	return &Page[R]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
