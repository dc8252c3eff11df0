// internal/domain/product/category_service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CategoryService handles category lookups
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// GetCategories retrieves all categories in navigation order
func (s *CategoryService) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category

	if err := s.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}

	return categories, nil
}

// GetCategoryBySlug retrieves a single category by its exact slug
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	result := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&category)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", result.Error)
	}

	return &category, nil
}
