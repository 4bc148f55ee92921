package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon holds a discount rule. Percentage coupons store the percent in
// Value (e.g. 10 for 10%); fixed coupons store the discount in minor
// units. Value is decimal so percentage math never loses precision
// before the final rounding.
type Coupon struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string          `gorm:"column:code;not null;uniqueIndex"`
	Type      string          `gorm:"column:type;not null"`
	Value     decimal.Decimal `gorm:"column:value;type:numeric(12,2);not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	ExpiresAt *time.Time      `gorm:"column:expires_at"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
