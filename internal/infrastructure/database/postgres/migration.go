// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopvn/storefront/internal/domain/product"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Entry
	now    func() time.Time
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger.WithField("component", "migration"),
		now:    time.Now,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	// Dependency order
	models := []interface{}{
		&product.Category{},
		&product.Product{},
		&product.ProductImage{},
		&product.ProductVariant{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates the indexes used by the listing queries
func (m *Migration) CreateIndexes() error {
	m.logger.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",

		// Category indexes
		"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order, name)",

		// Variant and image indexes
		"CREATE INDEX IF NOT EXISTS idx_product_variants_product ON product_variants(product_id, id)",
		"CREATE INDEX IF NOT EXISTS idx_product_images_sort_order ON product_images(product_id, sort_order)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts demo catalog data
func (m *Migration) SeedInitialData() error {
	m.logger.Info("🌱 Seeding initial data...")

	categories, err := m.seedCategories()
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedProducts(categories); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	m.logger.Info("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates the default categories and returns them by slug
func (m *Migration) seedCategories() (map[string]uint, error) {
	m.logger.Info("🏷️ Seeding categories...")

	describe := func(s string) *string { return &s }
	categories := []product.Category{
		{Name: "Thời trang nam", Slug: "thoi-trang-nam", Description: describe("Áo, quần và trang phục cho nam"), SortOrder: 1},
		{Name: "Thời trang nữ", Slug: "thoi-trang-nu", Description: describe("Váy, áo và trang phục cho nữ"), SortOrder: 2},
		{Name: "Giày dép", Slug: "giay-dep", Description: describe("Giày thể thao, sandal và dép"), SortOrder: 3},
		{Name: "Phụ kiện", Slug: "phu-kien", SortOrder: 4},
	}

	ids := make(map[string]uint, len(categories))
	for _, category := range categories {
		var existing product.Category
		result := m.db.Where("slug = ?", category.Slug).First(&existing)
		switch {
		case result.Error == nil:
			m.logger.Debugf("⏭️ Category already exists: %s", category.Name)
			ids[category.Slug] = existing.ID
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			if err := m.db.Create(&category).Error; err != nil {
				return nil, err
			}
			m.logger.Infof("✅ Created category: %s", category.Name)
			ids[category.Slug] = category.ID
		default:
			return nil, result.Error
		}
	}

	return ids, nil
}

func (m *Migration) seedProducts(categories map[string]uint) error {
	m.logger.Info("🛍️ Seeding demo products...")

	var productCount int64
	if err := m.db.Model(&product.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		m.logger.Info("⏭️ Products already exist")
		return nil
	}

	now := m.now().UTC()
	saleStart := now.AddDate(0, 0, -7)
	saleEnd := now.AddDate(0, 0, 30)
	vnd := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	vndPtr := func(v int64) *decimal.Decimal { d := decimal.NewFromInt(v); return &d }
	str := func(s string) *string { return &s }
	category := func(slug string) *uint {
		id, ok := categories[slug]
		if !ok {
			return nil
		}
		return &id
	}

	demo := []product.Product{
		{
			Name:              "Áo thun cotton basic",
			Slug:              "ao-thun-cotton-basic",
			Description:       "Áo thun 100% cotton, form regular, thấm hút mồ hôi tốt.",
			Price:             vnd(199000),
			DiscountPrice:     vndPtr(149000),
			DiscountStartDate: &saleStart,
			DiscountEndDate:   &saleEnd,
			CategoryID:        category("thoi-trang-nam"),
			IsActive:          true,
			Images: []product.ProductImage{
				{URL: "/images/ao-thun-trang.jpg", AltText: "Áo thun trắng", SortOrder: 0},
				{URL: "/images/ao-thun-den.jpg", AltText: "Áo thun đen", SortOrder: 1},
			},
			Variants: []product.ProductVariant{
				{SKU: "ATC-TRANG-M", Color: str("Trắng"), Size: str("M"), Stock: 20},
				{SKU: "ATC-TRANG-L", Color: str("Trắng"), Size: str("L"), Stock: 15},
				{SKU: "ATC-DEN-M", Color: str("Đen"), Size: str("M"), Stock: 0},
				{SKU: "ATC-DEN-XL", Color: str("Đen"), Size: str("XL"), Stock: 8, Price: vndPtr(219000)},
			},
		},
		{
			Name:        "Áo sơ mi oxford",
			Slug:        "ao-so-mi-oxford",
			Description: "Sơ mi oxford dài tay, phù hợp đi làm và dạo phố.",
			Price:       vnd(359000),
			CategoryID:  category("thoi-trang-nam"),
			IsActive:    true,
			Images: []product.ProductImage{
				{URL: "/images/so-mi-oxford.jpg", AltText: "Áo sơ mi oxford", SortOrder: 0},
			},
			Variants: []product.ProductVariant{
				{SKU: "SMO-XANH-M", Color: str("Xanh nhạt"), Size: str("M"), Stock: 10},
				{SKU: "SMO-XANH-L", Color: str("Xanh nhạt"), Size: str("L"), Stock: 6},
			},
		},
		{
			Name:        "Váy hoa nhí",
			Slug:        "vay-hoa-nhi",
			Description: "Váy voan hoa nhí, dáng xòe nhẹ nhàng.",
			Price:       vnd(429000),
			CategoryID:  category("thoi-trang-nu"),
			IsActive:    true,
			Variants: []product.ProductVariant{
				{SKU: "VHN-S", Size: str("S"), Stock: 5},
				{SKU: "VHN-M", Size: str("M"), Stock: 3},
			},
		},
		{
			Name:              "Giày chạy bộ nhẹ",
			Slug:              "giay-chay-bo-nhe",
			Description:       "Đế êm, thoáng khí, phù hợp chạy bộ hằng ngày.",
			Price:             vnd(890000),
			DiscountPrice:     vndPtr(690000),
			DiscountStartDate: &saleStart,
			DiscountEndDate:   &saleEnd,
			CategoryID:        category("giay-dep"),
			IsActive:          true,
			Images: []product.ProductImage{
				{URL: "/images/giay-chay-bo-2.jpg", SortOrder: 2},
				{URL: "/images/giay-chay-bo-1.jpg", SortOrder: 1},
			},
			Variants: []product.ProductVariant{
				{SKU: "GCB-40", Size: str("40"), Stock: 4},
				{SKU: "GCB-41", Size: str("41"), Stock: 7},
				{SKU: "GCB-42", Size: str("42"), Stock: 2},
			},
		},
		{
			Name:        "Dép quai ngang",
			Slug:        "dep-quai-ngang",
			Description: "Dép cao su đi trong nhà và đi biển.",
			Price:       vnd(89000),
			CategoryID:  category("giay-dep"),
			IsActive:    true,
		},
		{
			Name:        "Mũ lưỡi trai",
			Slug:        "mu-luoi-trai",
			Description: "Mũ kaki, khóa điều chỉnh phía sau.",
			Price:       vnd(129000),
			CategoryID:  category("phu-kien"),
			IsActive:    false,
			Variants: []product.ProductVariant{
				{SKU: "MLT-DEN", Color: str("Đen"), Stock: 12},
			},
		},
	}

	for i := range demo {
		demo[i].CreatedAt = now.Add(-time.Duration(len(demo)-i) * time.Hour)
		if err := m.db.Create(&demo[i]).Error; err != nil {
			m.logger.WithError(err).Warnf("⚠️ Failed to create demo product %s", demo[i].Slug)
			continue
		}
		m.logger.Infof("✅ Created demo product: %s", demo[i].Name)
	}

	return nil
}
