// internal/domain/product/enrichment.go
package product

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Qualifiers appended to a search term to suggest related searches
var relatedQualifiers = []string{"giá rẻ", "chính hãng", "cao cấp", "khuyến mãi"}

const maxRelatedSearches = 4

var hundred = decimal.NewFromInt(100)

// PriceRange returns the min and max effective price across variants.
// Without variants both ends are the base price.
func (p *Product) PriceRange() (decimal.Decimal, decimal.Decimal) {
	if len(p.Variants) == 0 {
		return p.Price, p.Price
	}
	low := p.Variants[0].EffectivePrice(p.Price)
	high := low
	for _, v := range p.Variants[1:] {
		price := v.EffectivePrice(p.Price)
		if price.LessThan(low) {
			low = price
		}
		if price.GreaterThan(high) {
			high = price
		}
	}
	return low, high
}

// IsDiscountActive is true only when both window bounds are set and
// now falls in [start, end).
func (p *Product) IsDiscountActive(now time.Time) bool {
	if p.DiscountPrice == nil || p.DiscountStartDate == nil || p.DiscountEndDate == nil {
		return false
	}
	return !now.Before(*p.DiscountStartDate) && now.Before(*p.DiscountEndDate)
}

// DiscountPercent returns the rounded discount percentage, 0 when inactive
func (p *Product) DiscountPercent(now time.Time) int {
	if !p.IsDiscountActive(now) {
		return 0
	}
	return discountPercent(p.Price, *p.DiscountPrice)
}

func discountPercent(price, discount decimal.Decimal) int {
	if !price.IsPositive() || !price.GreaterThan(discount) {
		return 0
	}
	return int(price.Sub(discount).Div(price).Mul(hundred).Round(0).IntPart())
}

// CurrentPrice is the discount price while a discount is active, else the base price
func (p *Product) CurrentPrice(now time.Time) decimal.Decimal {
	if p.IsDiscountActive(now) {
		return *p.DiscountPrice
	}
	return p.Price
}

// TotalStock sums stock across variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// PrimaryImage returns the image with the lowest sort order, ties keeping
// their stored order. placeholder is used when there are no images.
func (p *Product) PrimaryImage(placeholder string) string {
	if len(p.Images) == 0 {
		return placeholder
	}
	images := make([]ProductImage, len(p.Images))
	copy(images, p.Images)
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].SortOrder < images[j].SortOrder
	})
	return images[0].URL
}

// RelatedSearches suggests up to four follow-up searches for term
func RelatedSearches(term string, category *Category) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}
	}
	suggestions := make([]string, 0, len(relatedQualifiers)+1)
	for _, q := range relatedQualifiers {
		suggestions = append(suggestions, term+" "+q)
	}
	if category != nil && category.Name != "" {
		suggestions = append(suggestions, term+" "+category.Name)
	}
	if len(suggestions) > maxRelatedSearches {
		suggestions = suggestions[:maxRelatedSearches]
	}
	return suggestions
}

// Card is the display-ready form of a product in a listing
type Card struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Image           string           `json:"image"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPrice   *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountPercent int              `json:"discount_percent"`
	HasDiscount     bool             `json:"has_discount"`
	MinPrice        decimal.Decimal  `json:"min_price"`
	MaxPrice        decimal.Decimal  `json:"max_price"`
	TotalStock      int              `json:"total_stock"`
	InStock         bool             `json:"in_stock"`
	IsActive        bool             `json:"is_active"`
	Category        *CategoryRef     `json:"category,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// CategoryRef is the short category form embedded in cards
type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewCard enriches a fetched product for display
func NewCard(p *Product, now time.Time, placeholder string) Card {
	low, high := p.PriceRange()
	stock := p.TotalStock()
	card := Card{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		Image:      p.PrimaryImage(placeholder),
		Price:      p.Price,
		MinPrice:   low,
		MaxPrice:   high,
		TotalStock: stock,
		InStock:    stock > 0,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
	if p.IsDiscountActive(now) {
		discount := *p.DiscountPrice
		card.HasDiscount = true
		card.DiscountPrice = &discount
		card.DiscountPercent = p.DiscountPercent(now)
	}
	if p.Category != nil {
		card.Category = &CategoryRef{Name: p.Category.Name, Slug: p.Category.Slug}
	}
	return card
}

// NewCards enriches a page of products
func NewCards(products []Product, now time.Time, placeholder string) []Card {
	cards := make([]Card, 0, len(products))
	for i := range products {
		cards = append(cards, NewCard(&products[i], now, placeholder))
	}
	return cards
}
