package payloads

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedEvent signals an order was assembled and committed.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	PaymentMethod string    `json:"payment_method"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
}

// OrderPendingEvent is emitted for gateway orders awaiting payment.
type OrderPendingEvent struct {
	OrderID         uuid.UUID `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	PaymentIntentID string    `json:"payment_intent_id"`
	TotalCents      int64     `json:"total_cents"`
	Currency        string    `json:"currency"`
}

// OrderPaidEvent is emitted once a gateway payment is verified and captured.
type OrderPaidEvent struct {
	OrderID         uuid.UUID `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	PaymentID       string    `json:"payment_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	AmountCents     int64     `json:"amount_cents"`
	PaidAt          time.Time `json:"paid_at"`
}

// PaymentFailedEvent reports a verification that did not settle.
type PaymentFailedEvent struct {
	OrderID         uuid.UUID `json:"order_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Reason          string    `json:"reason"`
}

// CartConvertedEvent reports a cart cleared into an order.
type CartConvertedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	ItemCount int       `json:"item_count"`
}

// StockExhaustedEvent flags a product that hit zero during checkout.
type StockExhaustedEvent struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
}
