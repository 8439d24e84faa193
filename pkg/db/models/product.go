package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string                `gorm:"column:sku;not null;uniqueIndex"`
	Name           string                `gorm:"column:name;not null"`
	Description    *string               `gorm:"column:description"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Price          decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal      `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Sizes          pq.StringArray        `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Colors         pq.StringArray        `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURL       *string               `gorm:"column:image_url"`
	Stock          int                   `gorm:"column:stock;not null;default:0"`
	Status         enums.ProductStatus   `gorm:"column:status;type:text;not null;default:'active'"`
	IsFeatured     bool                  `gorm:"column:is_featured;not null;default:false"`
	OnSale         bool                  `gorm:"column:on_sale;not null;default:false"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
