package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/shopvn/storefront/internal/config"
	"github.com/shopvn/storefront/internal/domain/product"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	log, _ := test.NewNullLogger()
	cfg := &config.Config{Database: config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1, MaxLifetime: time.Minute}}

	db, err := Open(sqlite.Open("file::memory:"), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenAndHealth(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Health(context.Background()))
	require.NotNil(t, db.GetDB())
}

func TestMigrationSeedsCatalog(t *testing.T) {
	db := openTestDB(t)
	log, _ := test.NewNullLogger()
	m := NewMigration(db.GetDB(), log)

	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())
	require.NoError(t, m.SeedInitialData())

	var categories int64
	require.NoError(t, db.GetDB().Model(&product.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(4), categories)

	var products int64
	require.NoError(t, db.GetDB().Model(&product.Product{}).Count(&products).Error)
	assert.Equal(t, int64(6), products)

	var shirt product.Product
	require.NoError(t, db.GetDB().Preload("Variants").Where("slug = ?", "ao-thun-cotton-basic").First(&shirt).Error)
	assert.Len(t, shirt.Variants, 4)
	assert.Equal(t, 25, shirt.DiscountPercent(time.Now()))

	// Seeding twice does not duplicate anything.
	require.NoError(t, m.SeedInitialData())
	require.NoError(t, db.GetDB().Model(&product.Product{}).Count(&products).Error)
	assert.Equal(t, int64(6), products)
	require.NoError(t, db.GetDB().Model(&product.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(4), categories)
}
