// internal/interfaces/http/handlers/category.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopvn/storefront/internal/domain/product"
	"github.com/shopvn/storefront/internal/domain/storefront"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categories storefront.Categories
	pages      *storefront.Composer
	logger     *logrus.Entry
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories storefront.Categories, pages *storefront.Composer, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		pages:      pages,
		logger:     logger.WithField("component", "category_handler"),
	}
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categories.GetCategories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve categories")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// GetCategoryPage handles GET /categories/:slug
func (h *CategoryHandler) GetCategoryPage(c *gin.Context) {
	q := product.ParseSearchQuery(c.Request.URL.Query())

	page, err := h.pages.CategoryPage(c.Request.Context(), c.Param("slug"), q)
	if errors.Is(err, product.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category retrieved successfully",
		"data":    page,
	})
}
