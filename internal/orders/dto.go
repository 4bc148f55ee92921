package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
)

// ShippingAddressInput is the address snapshot supplied inline at
// checkout when the shopper does not reference a saved address.
type ShippingAddressInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Line1     string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Country   string  `json:"country"`
	Phone     *string `json:"phone,omitempty"`
}

// CreateOrderInput carries everything needed to assemble an order from
// the current cart. Exactly one of AddressID or Address must be set.
type CreateOrderInput struct {
	Email          *string               `json:"email,omitempty"`
	AddressID      *uuid.UUID            `json:"address_id,omitempty"`
	Address        *ShippingAddressInput `json:"shipping_address,omitempty"`
	ShippingMethod string                `json:"shipping_method"`
	CouponCode     *string               `json:"coupon_code,omitempty"`
	Source         string                `json:"source,omitempty"`
}

// ItemDTO is one purchased line as snapshotted on the order.
type ItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	ProductName    string     `json:"product_name"`
	SKU            string     `json:"sku"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	TotalCents     int64      `json:"total_cents"`
}

// OrderDTO is the full order view returned from reads and writes.
type OrderDTO struct {
	ID                uuid.UUID  `json:"id"`
	OrderNumber       string     `json:"order_number"`
	Status            string     `json:"status"`
	PaymentStatus     string     `json:"payment_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	SubtotalCents     int64      `json:"subtotal_cents"`
	TaxCents          int64      `json:"tax_cents"`
	ShippingCents     int64      `json:"shipping_cents"`
	DiscountCents     int64      `json:"discount_cents"`
	TotalCents        int64      `json:"total_cents"`
	Currency          string     `json:"currency"`
	CouponCode        *string    `json:"coupon_code,omitempty"`
	ShippingMethod    string     `json:"shipping_method"`
	PaymentMethod     string     `json:"payment_method"`
	PaymentIntentID   *string    `json:"payment_intent_id,omitempty"`
	Items             []ItemDTO  `json:"items"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SummaryDTO is the compact order row used by history listings.
type SummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			ProductName:    item.ProductName,
			SKU:            item.SKU,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	return &OrderDTO{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		SubtotalCents:     order.SubtotalCents,
		TaxCents:          order.TaxCents,
		ShippingCents:     order.ShippingCents,
		DiscountCents:     order.DiscountCents,
		TotalCents:        order.TotalCents,
		Currency:          order.Currency,
		CouponCode:        order.CouponCode,
		ShippingMethod:    order.ShippingMethod,
		PaymentMethod:     order.PaymentMethod,
		PaymentIntentID:   order.PaymentIntentID,
		Items:             items,
		CreatedAt:         order.CreatedAt,
	}
}

func toSummaryDTO(order *models.Order) SummaryDTO {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return SummaryDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalCents:    order.TotalCents,
		Currency:      order.Currency,
		ItemCount:     count,
		CreatedAt:     order.CreatedAt,
	}
}
