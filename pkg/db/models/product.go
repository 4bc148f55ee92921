package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is the canonical catalog listing. Prices are minor currency
// units. AvailableQuantity is mutated by admin writes and by order
// assembly's guarded stock decrements.
type Product struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID        *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	SKU               string         `gorm:"column:sku;not null;uniqueIndex"`
	Name              string         `gorm:"column:name;not null"`
	Description       *string        `gorm:"column:description"`
	PriceCents        int64          `gorm:"column:price_cents;not null"`
	AvailableQuantity int            `gorm:"column:available_quantity;not null;default:0"`
	IsActive          bool           `gorm:"column:is_active;not null;default:true"`
	Tags              pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Images            []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage stores a hosted image URL for a product; at most one row
// per product is flagged as main.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	IsMain    bool      `gorm:"column:is_main;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
