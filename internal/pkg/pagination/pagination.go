// internal/pkg/pagination/pagination.go
package pagination

import (
	"math"
	"strconv"
	"strings"
)

// PageSize is the fixed number of products shown per listing page.
const PageSize = 12

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// New builds page metadata for a 1-based page and a total match count.
func New(page int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	totalPages := TotalPages(total, PageSize)
	return Pagination{
		Page:       page,
		Limit:      PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// TotalPages returns ceil(total/size), or 0 when there is nothing to show.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Offset returns the row offset of a 1-based page. Pages too large to
// address saturate at the largest representable offset.
func Offset(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt / size * size
	}
	return (page - 1) * size
}

// ParsePage turns a raw query value into a 1-based page number.
// Anything that is not a positive integer is page 1. There is no upper clamp.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
