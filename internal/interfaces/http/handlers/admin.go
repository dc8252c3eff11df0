// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopvn/storefront/internal/domain/product"
	"github.com/shopvn/storefront/internal/pkg/auth"
	"github.com/shopvn/storefront/internal/pkg/boundary"
	"github.com/shopvn/storefront/internal/pkg/pagination"
	"github.com/shopvn/storefront/internal/pkg/pdf"
)

// AdminProducts is the admin side of the product service
type AdminProducts interface {
	AdminListProducts(ctx context.Context, q product.SearchQuery) *product.ListResult
}

// ListingExporter renders an admin listing page to PDF
type ListingExporter interface {
	NewListingReport(q product.SearchQuery, result *product.ListResult, cards []product.Card) pdf.ListingReport
	GenerateListing(report pdf.ListingReport) (*bytes.Buffer, error)
}

// AdminHandler handles admin endpoints
type AdminHandler struct {
	authenticator *auth.AdminAuthenticator
	products      AdminProducts
	exporter      ListingExporter
	placeholder   string
	logger        *logrus.Entry
	now           func() time.Time
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authenticator *auth.AdminAuthenticator, products AdminProducts, exporter ListingExporter, placeholder string, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		authenticator: authenticator,
		products:      products,
		exporter:      exporter,
		placeholder:   placeholder,
		logger:        logger.WithField("component", "admin_handler"),
		now:           time.Now,
	}
}

// LoginRequest is the body of POST /admin/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminListing is one page of the admin product table
type AdminListing struct {
	Products   []product.Card        `json:"products"`
	Pagination pagination.Pagination `json:"pagination"`
	Category   *product.Category     `json:"category,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	token, expiresAt, err := h.authenticator.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.WithField("client_ip", c.ClientIP()).Warn("Admin login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}
		h.logger.WithError(err).Error("Admin login failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Login failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_at":   expiresAt,
		},
	})
}

// ListProducts handles GET /admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	q := product.ParseSearchQuery(c.Request.URL.Query())
	result := h.products.AdminListProducts(c.Request.Context(), q)

	listing := AdminListing{
		Products:   product.NewCards(result.Products, h.now(), h.placeholder),
		Pagination: result.Pagination,
		Category:   result.Category,
	}
	if result.Degraded {
		listing.Error = boundary.GenericMessage
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    listing,
	})
}

// ExportProducts handles GET /admin/products/export
func (h *AdminHandler) ExportProducts(c *gin.Context) {
	q := product.ParseSearchQuery(c.Request.URL.Query())
	result := h.products.AdminListProducts(c.Request.Context(), q)
	if result.Degraded {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": boundary.GenericMessage,
		})
		return
	}

	now := h.now()
	cards := product.NewCards(result.Products, now, h.placeholder)
	report := h.exporter.NewListingReport(q, result, cards)

	buf, err := h.exporter.GenerateListing(report)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate listing PDF")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate PDF",
		})
		return
	}

	filename := fmt.Sprintf("san-pham-%s-trang-%d.pdf", now.Format("20060102"), q.Page)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
