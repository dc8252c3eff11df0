// internal/domain/cart/snapshot.go
package cart

import (
	"errors"
	"time"

	"github.com/shopvn/storefront/internal/domain/product"
)

// ErrVariantNotFound is returned when a variant does not belong to the product
var ErrVariantNotFound = errors.New("variant not found for product")

// Snapshot builds the cart line for p at now. A variant with its own price
// uses that price as is; otherwise an active product discount applies.
func Snapshot(p *product.Product, variantID *uint, now time.Time, placeholder string) (CartItem, error) {
	item := CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Image:     p.PrimaryImage(placeholder),
		Price:     p.CurrentPrice(now),
	}

	if p.IsDiscountActive(now) {
		original := p.Price
		percent := p.DiscountPercent(now)
		item.OriginalPrice = &original
		item.DiscountPercent = &percent
	}

	if variantID == nil {
		stock := p.TotalStock()
		item.Stock = &stock
		return item, nil
	}

	for _, v := range p.Variants {
		if v.ID != *variantID {
			continue
		}
		id := v.ID
		stock := v.Stock
		item.VariantID = &id
		item.Color = v.Color
		item.Size = v.Size
		item.Stock = &stock
		if v.Price != nil {
			item.Price = *v.Price
			item.OriginalPrice = nil
			item.DiscountPercent = nil
		}
		return item, nil
	}
	return CartItem{}, ErrVariantNotFound
}
