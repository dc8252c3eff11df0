// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopvn/storefront/internal/config"
	"github.com/shopvn/storefront/internal/pkg/metrics"
	"github.com/shopvn/storefront/internal/pkg/pagination"
)

// Audience decides which products a listing may show
type Audience int

const (
	// AudienceStorefront only sees active products
	AudienceStorefront Audience = iota
	// AudienceAdmin sees every product
	AudienceAdmin
)

func (a Audience) String() string {
	if a == AudienceAdmin {
		return "admin"
	}
	return "storefront"
}

// Service handles product business logic
type Service struct {
	db         *gorm.DB
	config     *config.Config
	categories *CategoryService
	logger     *logrus.Entry
	metrics    *metrics.CatalogMetrics
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config, categories *CategoryService, logger *logrus.Logger, m *metrics.CatalogMetrics) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		categories: categories,
		logger:     logger.WithField("component", "catalog"),
		metrics:    m,
	}
}

// ListResult is one page of a listing plus its match count
type ListResult struct {
	Products   []Product             `json:"products"`
	Pagination pagination.Pagination `json:"pagination"`
	Category   *Category             `json:"category,omitempty"`
	Degraded   bool                  `json:"degraded"`
}

func emptyResult(page int) *ListResult {
	return &ListResult{
		Products:   []Product{},
		Pagination: pagination.New(page, 0),
	}
}

// Search runs the listing query: filters, one sort order and the page window.
// The returned count reflects the filters only.
func (s *Service) Search(ctx context.Context, q SearchQuery, audience Audience) (*ListResult, error) {
	var category *Category
	if q.CategorySlug != "" {
		found, err := s.categories.GetCategoryBySlug(ctx, q.CategorySlug)
		switch {
		case err == nil:
			category = found
		case errors.Is(err, ErrCategoryNotFound):
			s.metrics.IncDegraded("unknown_category")
			if s.config.Catalog.UnknownCategory == config.UnknownCategoryEmptyResult {
				s.logger.WithField("category", q.CategorySlug).Debug("Unknown category, returning empty listing")
				return emptyResult(q.Page), nil
			}
			s.logger.WithField("category", q.CategorySlug).Debug("Unknown category, ignoring filter")
		default:
			return nil, err
		}
	}

	var categoryID *uint
	if category != nil {
		categoryID = &category.ID
	}

	// Build query
	query := s.db.WithContext(ctx).Model(&Product{}).Scopes(
		activeOnly(audience == AudienceStorefront),
		matchingTerm(q.Term),
		inCategory(categoryID),
		priceBetween(q.MinPrice, q.MaxPrice),
	)

	// Count total records
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	result := emptyResult(q.Page)
	result.Category = category
	result.Pagination = pagination.New(q.Page, total)
	if q.Page > result.Pagination.TotalPages {
		// Past the last page: nothing to fetch.
		return result, nil
	}

	var products []Product
	if err := query.Session(&gorm.Session{}).
		Scopes(withDetails, pageWindow(q.Page)).
		Order(q.OrderClause()).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	result.Products = products

	return result, nil
}

// ListProducts serves the storefront listing. A store failure yields an
// empty page flagged as degraded instead of an error.
func (s *Service) ListProducts(ctx context.Context, q SearchQuery) *ListResult {
	return s.listOrDegrade(ctx, q, AudienceStorefront)
}

// AdminListProducts serves the admin listing, inactive products included.
func (s *Service) AdminListProducts(ctx context.Context, q SearchQuery) *ListResult {
	return s.listOrDegrade(ctx, q, AudienceAdmin)
}

func (s *Service) listOrDegrade(ctx context.Context, q SearchQuery, audience Audience) *ListResult {
	if timeout := s.config.Catalog.QueryTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.Search(ctx, q, audience)
	s.metrics.ObserveQuery(audience.String(), time.Since(start))
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"audience": audience.String(),
			"term":     q.Term,
			"category": q.CategorySlug,
			"sort":     string(q.Sort),
			"page":     q.Page,
		}).Error("Product listing failed, serving empty page")
		s.metrics.IncDegraded("store_error")

		degraded := emptyResult(q.Page)
		degraded.Degraded = true
		return degraded
	}
	return result
}

// GetProductBySlug retrieves a single active product by slug
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.findActive(ctx, "slug = ?", slug)
}

// GetProduct retrieves a single active product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	return s.findActive(ctx, "id = ?", id)
}

func (s *Service) findActive(ctx context.Context, cond string, arg interface{}) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).
		Scopes(withDetails).
		Where(cond, arg).
		Where("is_active = ?", true).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}
