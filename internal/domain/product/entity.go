// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Name              string           `gorm:"not null;size:255" json:"name"`
	Slug              string           `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description       string           `gorm:"type:text" json:"description"`
	Price             decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPrice     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount_price,omitempty"`
	DiscountStartDate *time.Time       `json:"discount_start_date,omitempty"`
	DiscountEndDate   *time.Time       `json:"discount_end_date,omitempty"`
	CategoryID        *uint            `gorm:"index" json:"category_id"`
	IsActive          bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt         time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Category *Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// Category represents product categories
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description *string        `gorm:"size:500" json:"description,omitempty"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductVariant represents product variants (size, color)
type ProductVariant struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	ProductID uint             `gorm:"not null;index" json:"product_id"`
	SKU       string           `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Color     *string          `gorm:"size:50" json:"color,omitempty"`
	Size      *string          `gorm:"size:50" json:"size,omitempty"`
	Price     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price,omitempty"` // Overrides product price if set
	Stock     int              `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string        { return "products" }
func (Category) TableName() string       { return "categories" }
func (ProductImage) TableName() string   { return "product_images" }
func (ProductVariant) TableName() string { return "product_variants" }

// EffectivePrice returns the variant override, or base when the variant has none
func (v ProductVariant) EffectivePrice(base decimal.Decimal) decimal.Decimal {
	if v.Price != nil {
		return *v.Price
	}
	return base
}
