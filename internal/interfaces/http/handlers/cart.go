// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopvn/storefront/internal/config"
	"github.com/shopvn/storefront/internal/domain/cart"
	"github.com/shopvn/storefront/internal/domain/product"
	"github.com/shopvn/storefront/internal/pkg/metrics"
)

// CartProducts looks up the product being added to a cart
type CartProducts interface {
	GetProduct(ctx context.Context, id uint) (*product.Product, error)
}

// CartHandler handles cart endpoints
type CartHandler struct {
	storage  cart.Storage
	products CartProducts
	config   *config.Config
	logger   *logrus.Logger
	metrics  *metrics.CartMetrics
	now      func() time.Time
}

// NewCartHandler creates a new cart handler
func NewCartHandler(storage cart.Storage, products CartProducts, cfg *config.Config, logger *logrus.Logger, m *metrics.CartMetrics) *CartHandler {
	return &CartHandler{
		storage:  storage,
		products: products,
		config:   cfg,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// AddToCartRequest is the body of POST /cart/items
type AddToCartRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartItemRequest is the body of PUT /cart/items/:id
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	Items   []cart.CartItem `json:"items"`
	Summary cart.Summary    `json:"summary"`
}

func newCartResponse(store *cart.Store) cartResponse {
	return cartResponse{
		Items:   store.Items(),
		Summary: store.Summary(),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    newCartResponse(store),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		h.logger.WithError(err).WithField("product_id", req.ProductID).Error("Failed to load product for cart")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	item, err := cart.Snapshot(p, req.VariantID, h.now(), h.config.Catalog.PlaceholderImage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	store, ok := h.openCart(c)
	if !ok {
		return
	}
	line := store.AddToCart(c.Request.Context(), item, req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data": gin.H{
			"item": line,
			"cart": newCartResponse(store),
		},
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := store.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    newCartResponse(store),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}
	store.RemoveFromCart(c.Request.Context(), c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    newCartResponse(store),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}
	store.ClearCart(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": store.Count(),
			"total": store.Total(),
		},
	})
}

// IsInCart handles GET /cart/contains?product_id=&variant_id=
func (h *CartHandler) IsInCart(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var variantID *uint
	if raw := c.Query("variant_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid variant ID",
			})
			return
		}
		id := uint(parsed)
		variantID = &id
	}

	store, ok := h.openCart(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart lookup completed",
		"data": gin.H{
			"in_cart": store.IsInCart(uint(productID), variantID),
		},
	})
}

// openCart loads the cart behind the caller's token cookie, issuing a new
// token when the cookie is missing or malformed. It writes a 503 and
// returns false when storage cannot be read, so a stored cart is never
// replaced by an empty one.
func (h *CartHandler) openCart(c *gin.Context) (*cart.Store, bool) {
	token := h.cartToken(c)

	store, err := cart.Open(c.Request.Context(), h.storage, cart.Key(h.config.Cart.KeyNamespace, token),
		cart.WithLogger(h.logger),
		cart.WithMetrics(h.metrics),
	)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cart")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Cart is temporarily unavailable",
		})
		return nil, false
	}
	return store, true
}

// cartToken gets the cart token from cookie or creates a new one
func (h *CartHandler) cartToken(c *gin.Context) string {
	token, err := c.Cookie(h.config.Cart.CookieName)
	if err == nil {
		if _, parseErr := uuid.Parse(token); parseErr == nil {
			return token
		}
	}

	token = uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Cart.CookieName, token, h.config.Cart.CookieMaxAge, "/", "", h.config.Cart.CookieSecure, true)
	return token
}
