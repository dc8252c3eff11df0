// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopvn/storefront/internal/domain/product"
	"github.com/shopvn/storefront/internal/domain/storefront"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	pages *storefront.Composer
}

// NewProductHandler creates a new product handler
func NewProductHandler(pages *storefront.Composer) *ProductHandler {
	return &ProductHandler{pages: pages}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	q := product.ParseSearchQuery(c.Request.URL.Query())
	page := h.pages.ListingPage(c.Request.Context(), q)

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    page,
	})
}

// SearchProducts handles GET /products/search
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	q := product.ParseSearchQuery(c.Request.URL.Query())
	if q.Sort == "" {
		q.Sort = product.SortRelevance
	}
	page := h.pages.ListingPage(c.Request.Context(), q)

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    page,
	})
}

// GetProductBySlug handles GET /products/slug/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product slug is required",
		})
		return
	}

	page, err := h.pages.ProductPage(c.Request.Context(), slug)
	if errors.Is(err, product.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    page,
	})
}
