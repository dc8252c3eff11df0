package product

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopvn/storefront/internal/config"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}, &ProductImage{}, &ProductVariant{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testConfig(policy string) *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			PlaceholderImage: "/images/placeholder.png",
			UnknownCategory:  policy,
		},
	}
}

func newTestService(t *testing.T, db *gorm.DB, policy string) *Service {
	t.Helper()
	log, _ := test.NewNullLogger()
	return NewService(db, testConfig(policy), NewCategoryService(db), log, nil)
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func createCategory(t *testing.T, db *gorm.DB, name, slug string) *Category {
	t.Helper()
	c := &Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createProduct(t *testing.T, db *gorm.DB, p *Product) *Product {
	t.Helper()
	if p.Slug == "" {
		p.Slug = strings.ReplaceAll(p.Name, " ", "-")
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func names(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

// seedCatalog creates two categories and five products with distinct
// prices, names and creation times.
func seedCatalog(t *testing.T, db *gorm.DB) (*Category, *Category) {
	t.Helper()
	ao := createCategory(t, db, "Thời trang", "thoi-trang")
	giay := createCategory(t, db, "Giày dép", "giay-dep")

	createProduct(t, db, &Product{Name: "áo thun trắng", Description: "cotton", Price: price("150000"), CategoryID: &ao.ID, IsActive: true, CreatedAt: baseTime})
	createProduct(t, db, &Product{Name: "áo khoác gió", Description: "chống nước", Price: price("450000"), CategoryID: &ao.ID, IsActive: true, CreatedAt: baseTime.Add(1 * time.Hour)})
	createProduct(t, db, &Product{Name: "quần jean", Description: "phối với áo sơ mi", Price: price("300000"), CategoryID: &ao.ID, IsActive: true, CreatedAt: baseTime.Add(2 * time.Hour)})
	createProduct(t, db, &Product{Name: "giày chạy bộ", Description: "nhẹ", Price: price("900000"), CategoryID: &giay.ID, IsActive: true, CreatedAt: baseTime.Add(3 * time.Hour)})
	createProduct(t, db, &Product{Name: "dép lê", Description: "đi trong nhà", Price: price("50000"), CategoryID: &giay.ID, IsActive: true, CreatedAt: baseTime.Add(4 * time.Hour)})
	return ao, giay
}

func TestSearchEmptyDatabase(t *testing.T) {
	db := setupProductTestDB(t)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	res := svc.ListProducts(context.Background(), ParseSearchQuery(url.Values{"q": {"shoes"}}))

	require.NotNil(t, res)
	assert.Empty(t, res.Products)
	assert.Equal(t, int64(0), res.Pagination.Total)
	assert.Equal(t, 0, res.Pagination.TotalPages)
	assert.False(t, res.Degraded)
}

func TestSearchRelevanceWithTermSortsByName(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	res, err := svc.Search(context.Background(), SearchQuery{Term: "áo", Sort: SortRelevance, Page: 1}, AudienceStorefront)
	require.NoError(t, err)

	assert.Equal(t, []string{"quần jean", "áo khoác gió", "áo thun trắng"}, names(res.Products))
	assert.Equal(t, int64(3), res.Pagination.Total)
}

// Stored columns are folded by the database's LOWER, which is Unicode-aware on
// PostgreSQL but ASCII-only on SQLite. The term itself is folded in Go, so an
// upper-case Vietnamese term still matches lower-case stored text here.
func TestSearchTermIsCaseFolded(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	res, err := svc.Search(context.Background(), SearchQuery{Term: "ÁO THUN", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, []string{"áo thun trắng"}, names(res.Products))

	res, err = svc.Search(context.Background(), SearchQuery{Term: "Chống Nước", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, []string{"áo khoác gió"}, names(res.Products))
}

func TestSearchRelevanceWithoutTermSortsNewestFirst(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	res, err := svc.Search(context.Background(), SearchQuery{Sort: SortRelevance, Page: 1}, AudienceStorefront)
	require.NoError(t, err)

	assert.Equal(t, []string{"dép lê", "giày chạy bộ", "quần jean", "áo khoác gió", "áo thun trắng"}, names(res.Products))
}

func TestSearchSortKeys(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	cases := map[SortKey][]string{
		SortPriceAsc:  {"dép lê", "áo thun trắng", "quần jean", "áo khoác gió", "giày chạy bộ"},
		SortPriceDesc: {"giày chạy bộ", "áo khoác gió", "quần jean", "áo thun trắng", "dép lê"},
		SortOldest:    {"áo thun trắng", "áo khoác gió", "quần jean", "giày chạy bộ", "dép lê"},
		SortNewest:    {"dép lê", "giày chạy bộ", "quần jean", "áo khoác gió", "áo thun trắng"},
		"bogus":       {"dép lê", "giày chạy bộ", "quần jean", "áo khoác gió", "áo thun trắng"},
		"":            {"dép lê", "giày chạy bộ", "quần jean", "áo khoác gió", "áo thun trắng"},
	}
	for key, want := range cases {
		res, err := svc.Search(context.Background(), SearchQuery{Sort: key, Page: 1}, AudienceStorefront)
		require.NoError(t, err, "sort=%q", key)
		assert.Equal(t, want, names(res.Products), "sort=%q", key)
	}
}

func TestSearchNameSortDirections(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	asc, err := svc.Search(context.Background(), SearchQuery{Sort: SortNameAsc, Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	desc, err := svc.Search(context.Background(), SearchQuery{Sort: SortNameDesc, Page: 1}, AudienceStorefront)
	require.NoError(t, err)

	ascNames := names(asc.Products)
	descNames := names(desc.Products)
	require.Len(t, descNames, len(ascNames))
	for i := range ascNames {
		assert.Equal(t, ascNames[i], descNames[len(descNames)-1-i])
	}
}

func TestSearchTermMatchesNameOrDescription(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	res, err := svc.Search(context.Background(), SearchQuery{Term: "NƯỚC", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, []string{"áo khoác gió"}, names(res.Products))

	res, err = svc.Search(context.Background(), SearchQuery{Term: "COTTON", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, []string{"áo thun trắng"}, names(res.Products))
}

func TestSearchPriceBoundsAreInclusive(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	q := ParseSearchQuery(url.Values{"min_price": {"150000"}, "max_price": {"450000"}, "sort": {"price_asc"}})
	res, err := svc.Search(context.Background(), q, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, []string{"áo thun trắng", "quần jean", "áo khoác gió"}, names(res.Products))
	assert.Equal(t, int64(3), res.Pagination.Total)
}

func TestSearchIgnoresMalformedPriceBound(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	q := ParseSearchQuery(url.Values{"min_price": {"abc"}, "max_price": {"300000"}})
	res, err := svc.Search(context.Background(), q, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Pagination.Total)
}

func TestSearchCategoryFilter(t *testing.T) {
	db := setupProductTestDB(t)
	_, giay := seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	res, err := svc.Search(context.Background(), SearchQuery{CategorySlug: "giay-dep", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, []string{"dép lê", "giày chạy bộ"}, names(res.Products))
	require.NotNil(t, res.Category)
	assert.Equal(t, giay.ID, res.Category.ID)
	require.NotNil(t, res.Products[0].Category)
	assert.Equal(t, "giay-dep", res.Products[0].Category.Slug)

	res, err = svc.Search(context.Background(), SearchQuery{CategorySlug: "GIAY-DEP", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Nil(t, res.Category, "slug match is exact")
}

func TestSearchUnknownCategoryIgnoresFilter(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	unfiltered, err := svc.Search(context.Background(), SearchQuery{Term: "áo", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	unknown, err := svc.Search(context.Background(), SearchQuery{Term: "áo", CategorySlug: "unknown-slug", Page: 1}, AudienceStorefront)
	require.NoError(t, err)

	assert.Equal(t, names(unfiltered.Products), names(unknown.Products))
	assert.Equal(t, unfiltered.Pagination, unknown.Pagination)
	assert.Nil(t, unknown.Category)
}

func TestSearchUnknownCategoryEmptyResultPolicy(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	svc := newTestService(t, db, config.UnknownCategoryEmptyResult)

	res, err := svc.Search(context.Background(), SearchQuery{CategorySlug: "unknown-slug", Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.Equal(t, int64(0), res.Pagination.Total)
	assert.False(t, res.Degraded)
}

func TestSearchCountIgnoresPageWindow(t *testing.T) {
	db := setupProductTestDB(t)
	for i := 0; i < 15; i++ {
		createProduct(t, db, &Product{
			Name:      fmt.Sprintf("sản phẩm %02d", i),
			Slug:      fmt.Sprintf("san-pham-%02d", i),
			Price:     price("10000"),
			IsActive:  true,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	first, err := svc.Search(context.Background(), SearchQuery{Sort: SortOldest, Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	assert.Len(t, first.Products, 12)
	assert.Equal(t, "sản phẩm 00", first.Products[0].Name)
	assert.Equal(t, int64(15), first.Pagination.Total)
	assert.Equal(t, 2, first.Pagination.TotalPages)
	assert.True(t, first.Pagination.HasNext)

	second, err := svc.Search(context.Background(), SearchQuery{Sort: SortOldest, Page: 2}, AudienceStorefront)
	require.NoError(t, err)
	assert.Equal(t, []string{"sản phẩm 12", "sản phẩm 13", "sản phẩm 14"}, names(second.Products))
	assert.Equal(t, int64(15), second.Pagination.Total)

	beyond, err := svc.Search(context.Background(), SearchQuery{Sort: SortOldest, Page: 7}, AudienceStorefront)
	require.NoError(t, err)
	assert.Empty(t, beyond.Products)
	assert.Equal(t, int64(15), beyond.Pagination.Total)
	assert.Equal(t, 7, beyond.Pagination.Page)

	huge, err := svc.Search(context.Background(), ParseSearchQuery(url.Values{"page": {"1000000000000000000"}, "sort": {"oldest"}}), AudienceStorefront)
	require.NoError(t, err)
	assert.Empty(t, huge.Products)
	assert.Greater(t, huge.Pagination.Page, 1)
	assert.True(t, huge.Pagination.HasPrev)
	assert.Equal(t, int64(15), huge.Pagination.Total)
}

func TestSearchEqualSortValuesPageStably(t *testing.T) {
	db := setupProductTestDB(t)
	for i := 0; i < 15; i++ {
		createProduct(t, db, &Product{
			Name:      fmt.Sprintf("mũ %02d", i),
			Slug:      fmt.Sprintf("mu-%02d", i),
			Price:     price("99000"),
			IsActive:  true,
			CreatedAt: baseTime,
		})
	}
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	var seen []string
	for page := 1; page <= 2; page++ {
		res, err := svc.Search(context.Background(), SearchQuery{Sort: SortPriceAsc, Page: page}, AudienceStorefront)
		require.NoError(t, err)
		seen = append(seen, names(res.Products)...)
	}

	require.Len(t, seen, 15)
	for i, name := range seen {
		assert.Equal(t, fmt.Sprintf("mũ %02d", i), name)
	}
}

func TestSearchAudience(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	hidden := createProduct(t, db, &Product{Name: "áo cũ", Price: price("1000"), IsActive: true, CreatedAt: baseTime})
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	shop := svc.ListProducts(context.Background(), SearchQuery{Page: 1})
	admin := svc.AdminListProducts(context.Background(), SearchQuery{Page: 1})

	assert.Equal(t, int64(5), shop.Pagination.Total)
	assert.Equal(t, int64(6), admin.Pagination.Total)
	assert.NotContains(t, names(shop.Products), "áo cũ")
	assert.Contains(t, names(admin.Products), "áo cũ")
}

func TestSearchPreloadsDetails(t *testing.T) {
	db := setupProductTestDB(t)
	cat := createCategory(t, db, "Thời trang", "thoi-trang")
	red := "đỏ"
	p := createProduct(t, db, &Product{
		Name:       "áo polo",
		Price:      price("200000"),
		CategoryID: &cat.ID,
		IsActive:   true,
		Images: []ProductImage{
			{URL: "/b.jpg", SortOrder: 2},
			{URL: "/a.jpg", SortOrder: 1},
		},
		Variants: []ProductVariant{
			{SKU: "POLO-R-M", Color: &red, Stock: 3},
			{SKU: "POLO-R-L", Color: &red, Stock: 2},
		},
	})
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	res, err := svc.Search(context.Background(), SearchQuery{Page: 1}, AudienceStorefront)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	got := res.Products[0]
	assert.Equal(t, p.ID, got.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Thời trang", got.Category.Name)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "/a.jpg", got.Images[0].URL)
	assert.Len(t, got.Variants, 2)
	assert.Equal(t, 5, got.TotalStock())
	assert.True(t, got.Price.Equal(price("200000")))
}

func TestListProductsDegradesOnStoreFailure(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	log, hook := test.NewNullLogger()
	svc := NewService(db, testConfig(config.UnknownCategoryIgnoreFilter), NewCategoryService(db), log, nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	var res *ListResult
	require.NotPanics(t, func() {
		res = svc.ListProducts(context.Background(), SearchQuery{Term: "áo", CategorySlug: "thoi-trang", Page: 2})
	})
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Products)
	assert.Equal(t, int64(0), res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.Page)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "catalog", hook.LastEntry().Data["component"])
}

func TestGetProductBySlug(t *testing.T) {
	db := setupProductTestDB(t)
	seedCatalog(t, db)
	off := createProduct(t, db, &Product{Name: "áo ẩn", Slug: "ao-an", Price: price("1000"), IsActive: true})
	require.NoError(t, db.Model(off).Update("is_active", false).Error)
	svc := newTestService(t, db, config.UnknownCategoryIgnoreFilter)

	p, err := svc.GetProductBySlug(context.Background(), "dép-lê")
	require.NoError(t, err)
	assert.Equal(t, "dép lê", p.Name)
	require.NotNil(t, p.Category)

	_, err = svc.GetProductBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.GetProductBySlug(context.Background(), "ao-an")
	assert.ErrorIs(t, err, ErrProductNotFound)

	byID, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Slug, byID.Slug)

	_, err = svc.GetProduct(context.Background(), off.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCategoryService(t *testing.T) {
	db := setupProductTestDB(t)
	require.NoError(t, db.Create(&Category{Name: "Phụ kiện", Slug: "phu-kien", SortOrder: 2}).Error)
	require.NoError(t, db.Create(&Category{Name: "Thời trang", Slug: "thoi-trang", SortOrder: 1}).Error)
	svc := NewCategoryService(db)

	cats, err := svc.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "thoi-trang", cats[0].Slug)

	c, err := svc.GetCategoryBySlug(context.Background(), "phu-kien")
	require.NoError(t, err)
	assert.Equal(t, "Phụ kiện", c.Name)

	_, err = svc.GetCategoryBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
