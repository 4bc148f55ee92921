package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/outbox"
)

// OrderRepository defines the persistence surface required by the
// order service.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	FindByIDForIdentity(ctx context.Context, id uuid.UUID, ident identity.Identity) (*models.Order, error)
	ListForIdentity(ctx context.Context, ident identity.Identity, limit, offset int) ([]models.Order, error)
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID string) error
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OutboxPublisher records domain events in the same transaction as the
// state change they describe.
type OutboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// StockAdjuster decrements available stock, returning the number of
// rows updated. Zero rows means the product lacked sufficient stock.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (int64, error)
}

// CouponResolver validates a coupon code against the clock.
type CouponResolver interface {
	Resolve(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
}

// AddressLoader resolves a saved address owned by a user.
type AddressLoader interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
}
