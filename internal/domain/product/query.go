// internal/domain/product/query.go
package product

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopvn/storefront/internal/pkg/pagination"
)

// SortKey selects the listing order
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
)

// SearchQuery is the normalized form of the listing query parameters
type SearchQuery struct {
	Term         string
	CategorySlug string
	Sort         SortKey
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Page         int
}

// ParseSearchQuery reads search/q, category, sort, page, min_price and
// max_price. Malformed numbers never fail: bounds are dropped and the page
// falls back to 1.
func ParseSearchQuery(values url.Values) SearchQuery {
	term := values.Get("search")
	if strings.TrimSpace(term) == "" {
		term = values.Get("q")
	}

	return SearchQuery{
		Term:         strings.TrimSpace(term),
		CategorySlug: strings.TrimSpace(values.Get("category")),
		Sort:         SortKey(strings.TrimSpace(values.Get("sort"))),
		MinPrice:     parsePriceBound(values.Get("min_price")),
		MaxPrice:     parsePriceBound(values.Get("max_price")),
		Page:         pagination.ParsePage(values.Get("page")),
	}
}

// parsePriceBound returns nil unless raw is a finite decimal number
func parsePriceBound(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &value
}

// HasTerm reports whether a free-text term is present
func (q SearchQuery) HasTerm() bool {
	return strings.TrimSpace(q.Term) != ""
}

// OrderClause resolves the sort key to one ORDER BY column, with the
// product id as tie-breaker so page windows stay stable on equal values.
func (q SearchQuery) OrderClause() string {
	return q.sortColumn() + ", products.id ASC"
}

func (q SearchQuery) sortColumn() string {
	switch q.Sort {
	case SortPriceAsc:
		return "products.price ASC"
	case SortPriceDesc:
		return "products.price DESC"
	case SortNameAsc:
		return "products.name ASC"
	case SortNameDesc:
		return "products.name DESC"
	case SortOldest:
		return "products.created_at ASC"
	case SortNewest:
		return "products.created_at DESC"
	case SortRelevance:
		if q.HasTerm() {
			return "products.name ASC"
		}
		return "products.created_at DESC"
	default:
		return "products.created_at DESC"
	}
}

// Query scopes. Each one is a no-op when its input is absent.

func matchingTerm(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		// Stored text is folded by the database; PostgreSQL's LOWER handles
		// Vietnamese diacritics, SQLite's only ASCII.
		search := "%" + strings.ToLower(term) + "%"
		return db.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", search, search)
	}
}

func inCategory(categoryID *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if categoryID == nil {
			return db
		}
		return db.Where("products.category_id = ?", *categoryID)
	}
}

func priceBetween(minPrice, maxPrice *decimal.Decimal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if minPrice != nil {
			db = db.Where("products.price >= ?", *minPrice)
		}
		if maxPrice != nil {
			db = db.Where("products.price <= ?", *maxPrice)
		}
		return db
	}
}

func activeOnly(enabled bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !enabled {
			return db
		}
		return db.Where("products.is_active = ?", true)
	}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

func pageWindow(page int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(pagination.Offset(page, pagination.PageSize)).Limit(pagination.PageSize)
	}
}
