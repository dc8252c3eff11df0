package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.ItemCount)
	assert.Equal(t, 0, s.TotalQuantity)
	assert.True(t, s.Subtotal.IsZero())
	assert.True(t, s.Savings.IsZero())
	assert.True(t, s.Total.IsZero())
	assert.False(t, s.HasDiscountedItems)
}

func TestSummarizeUsesOriginalPrices(t *testing.T) {
	discounted := item(1, nil, "80")
	discounted.OriginalPrice = ptr(money("100"))
	discounted.Quantity = 2

	plain := item(2, nil, "50")
	plain.Quantity = 1

	// An original price below the current price is not a saving.
	raised := item(3, nil, "70")
	raised.OriginalPrice = ptr(money("60"))
	raised.Quantity = 1

	s := Summarize([]CartItem{discounted, plain, raised})

	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, 4, s.TotalQuantity)
	assert.True(t, s.Subtotal.Equal(money("310")), s.Subtotal.String())
	assert.True(t, s.Total.Equal(money("280")), s.Total.String())
	assert.True(t, s.Savings.Equal(money("40")), s.Savings.String())
	assert.True(t, s.HasDiscountedItems)
}

func TestStoreSummaryTracksPriceChanges(t *testing.T) {
	st := openStore(t, NewMemoryStorage())

	promo := item(1, nil, "80")
	promo.OriginalPrice = ptr(money("100"))
	st.AddToCart(context.Background(), promo, 1)
	assert.True(t, st.Summary().HasDiscountedItems)

	st.AddToCart(context.Background(), item(1, nil, "100"), 1)
	summary := st.Summary()
	assert.False(t, summary.HasDiscountedItems)
	assert.True(t, summary.Total.Equal(money("200")))
}
