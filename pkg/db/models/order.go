package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Order is the assembled checkout record. All monetary columns are
// minor units. Shipping address fields are snapshotted flat at creation
// so later address edits never change historical orders.
type Order struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       string         `gorm:"column:order_number;not null;uniqueIndex"`
	UserID            *uuid.UUID     `gorm:"column:user_id;type:uuid;index"`
	SessionID         *string        `gorm:"column:session_id;index"`
	Email             *string        `gorm:"column:email"`
	Status            string         `gorm:"column:status;not null"`
	PaymentStatus     string         `gorm:"column:payment_status;not null"`
	FulfillmentStatus string         `gorm:"column:fulfillment_status;not null"`
	SubtotalCents     int64          `gorm:"column:subtotal_cents;not null"`
	TaxCents          int64          `gorm:"column:tax_cents;not null;default:0"`
	ShippingCents     int64          `gorm:"column:shipping_cents;not null;default:0"`
	DiscountCents     int64          `gorm:"column:discount_cents;not null;default:0"`
	TotalCents        int64          `gorm:"column:total_cents;not null"`
	Currency          string         `gorm:"column:currency;not null"`
	CouponCode        *string        `gorm:"column:coupon_code"`
	ShippingMethod    string         `gorm:"column:shipping_method;not null"`
	PaymentMethod     string         `gorm:"column:payment_method;not null"`
	PaymentIntentID   *string        `gorm:"column:payment_intent_id;index"`
	Source            string         `gorm:"column:source;not null;default:'web'"`
	Tags              pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`

	ShippingFirstName string  `gorm:"column:shipping_first_name;not null"`
	ShippingLastName  string  `gorm:"column:shipping_last_name;not null"`
	ShippingAddress   string  `gorm:"column:shipping_address;not null"`
	ShippingCity      string  `gorm:"column:shipping_city;not null"`
	ShippingState     string  `gorm:"column:shipping_state;not null"`
	ShippingZip       string  `gorm:"column:shipping_zip;not null"`
	ShippingCountry   string  `gorm:"column:shipping_country;not null"`
	ShippingPhone     *string `gorm:"column:shipping_phone"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one cart line at checkout. UnitPriceCents is the
// product price at purchase time and never tracks later price changes.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	VariantID      *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	ProductName    string     `gorm:"column:product_name;not null"`
	SKU            string     `gorm:"column:sku;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	TotalCents     int64      `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
