package product

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchQueryDefaults(t *testing.T) {
	q := ParseSearchQuery(url.Values{})

	assert.Equal(t, "", q.Term)
	assert.Equal(t, "", q.CategorySlug)
	assert.Equal(t, SortKey(""), q.Sort)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "products.created_at DESC, products.id ASC", q.OrderClause())
}

func TestParseSearchQueryReadsAllParameters(t *testing.T) {
	q := ParseSearchQuery(url.Values{
		"search":    {"  áo thun "},
		"category":  {"thoi-trang"},
		"sort":      {"price_desc"},
		"page":      {"3"},
		"min_price": {"100000"},
		"max_price": {"250000.50"},
	})

	assert.Equal(t, "áo thun", q.Term)
	assert.Equal(t, "thoi-trang", q.CategorySlug)
	assert.Equal(t, SortPriceDesc, q.Sort)
	assert.Equal(t, 3, q.Page)
	require.NotNil(t, q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, "100000", q.MinPrice.String())
	assert.Equal(t, "250000.5", q.MaxPrice.String())
}

func TestParseSearchQueryFallsBackToQ(t *testing.T) {
	assert.Equal(t, "giày", ParseSearchQuery(url.Values{"q": {"giày"}}).Term)
	assert.Equal(t, "dép", ParseSearchQuery(url.Values{"search": {"dép"}, "q": {"giày"}}).Term)
	assert.Equal(t, "giày", ParseSearchQuery(url.Values{"search": {"   "}, "q": {"giày"}}).Term)
}

func TestParseSearchQueryMalformedNumbers(t *testing.T) {
	q := ParseSearchQuery(url.Values{
		"page":      {"NaN"},
		"min_price": {"abc"},
		"max_price": {"Infinity"},
	})

	assert.Equal(t, 1, q.Page)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)

	assert.Equal(t, 1, ParseSearchQuery(url.Values{"page": {"-2"}}).Page)
	assert.Equal(t, 1, ParseSearchQuery(url.Values{"page": {"0"}}).Page)
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		query SearchQuery
		want  string
	}{
		{SearchQuery{Sort: SortPriceAsc}, "products.price ASC, products.id ASC"},
		{SearchQuery{Sort: SortPriceDesc}, "products.price DESC, products.id ASC"},
		{SearchQuery{Sort: SortNameAsc}, "products.name ASC, products.id ASC"},
		{SearchQuery{Sort: SortNameDesc}, "products.name DESC, products.id ASC"},
		{SearchQuery{Sort: SortOldest}, "products.created_at ASC, products.id ASC"},
		{SearchQuery{Sort: SortNewest}, "products.created_at DESC, products.id ASC"},
		{SearchQuery{Sort: SortRelevance, Term: "áo"}, "products.name ASC, products.id ASC"},
		{SearchQuery{Sort: SortRelevance, Term: "  "}, "products.created_at DESC, products.id ASC"},
		{SearchQuery{Sort: SortRelevance}, "products.created_at DESC, products.id ASC"},
		{SearchQuery{Sort: "PRICE_ASC"}, "products.created_at DESC, products.id ASC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.query.OrderClause(), "sort=%q term=%q", tc.query.Sort, tc.query.Term)
	}
}
