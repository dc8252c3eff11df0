// internal/domain/cart/summary.go
package cart

import "github.com/shopspring/decimal"

// Summarize computes totals for items. Subtotal uses the original price
// when a line has one.
func Summarize(items []CartItem) Summary {
	summary := Summary{
		ItemCount: len(items),
		Subtotal:  decimal.Zero,
		Savings:   decimal.Zero,
		Total:     decimal.Zero,
	}

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		summary.TotalQuantity += item.Quantity
		summary.Total = summary.Total.Add(item.LineTotal())

		listPrice := item.Price
		if item.OriginalPrice != nil {
			listPrice = *item.OriginalPrice
		}
		summary.Subtotal = summary.Subtotal.Add(listPrice.Mul(qty))

		if item.IsDiscounted() {
			summary.HasDiscountedItems = true
			summary.Savings = summary.Savings.Add(item.OriginalPrice.Sub(item.Price).Mul(qty))
		}
	}

	return summary
}
