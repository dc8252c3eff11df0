// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// CurrentVersion is the shape written by this version of the store
const CurrentVersion = 1

// CartItem is one cart line. Lines merge on (ProductID, VariantID); ID is
// only used to address a line from the outside.
type CartItem struct {
	ID              string           `json:"id"`
	ProductID       uint             `json:"product_id"`
	VariantID       *uint            `json:"variant_id,omitempty"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Image           string           `json:"image"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent *int             `json:"discount_percent,omitempty"`
	Quantity        int              `json:"quantity"`
	Color           *string          `json:"color,omitempty"`
	Size            *string          `json:"size,omitempty"`
	Stock           *int             `json:"stock,omitempty"`
}

// Matches reports whether the line holds productID with variantID.
// A missing variant only matches a missing variant.
func (i CartItem) Matches(productID uint, variantID *uint) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}
	return *i.VariantID == *variantID
}

// LineTotal is price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsDiscounted is true when the original price is above the current price
func (i CartItem) IsDiscounted() bool {
	return i.OriginalPrice != nil && i.OriginalPrice.GreaterThan(i.Price)
}

// Record is the persisted form of a cart
type Record struct {
	Version int        `json:"version"`
	Cart    []CartItem `json:"cart"`
}

// Summary holds totals derived from the current lines
type Summary struct {
	ItemCount          int             `json:"item_count"`     // Number of lines
	TotalQuantity      int             `json:"total_quantity"` // Sum of all quantities
	Subtotal           decimal.Decimal `json:"subtotal"`       // Before discounts
	Savings            decimal.Decimal `json:"savings"`
	Total              decimal.Decimal `json:"total"`
	HasDiscountedItems bool            `json:"has_discounted_items"`
}
