package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

// Repository exposes persistence operations for orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func identityScope(query *gorm.DB, ident identity.Identity) *gorm.DB {
	if ident.UserID != nil {
		return query.Where("user_id = ?", *ident.UserID)
	}
	return query.Where("session_id = ?", *ident.SessionID)
}

// Create persists the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, "orders_order_number_key") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	return nil
}

// FindByIDForIdentity loads an order with items, scoped to its owner.
func (r *Repository) FindByIDForIdentity(ctx context.Context, id uuid.UUID, ident identity.Identity) (*models.Order, error) {
	var order models.Order
	query := identityScope(r.db.WithContext(ctx), ident).
		Preload("Items").
		Where("id = ?", id)
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return &order, nil
}

// FindByID loads an order with items without an ownership predicate.
// Callers must apply their own authorization before using the result.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return &order, nil
}

// ListForIdentity returns the identity's orders, newest first.
func (r *Repository) ListForIdentity(ctx context.Context, ident identity.Identity, limit, offset int) ([]models.Order, error) {
	var rows []models.Order
	query := identityScope(r.db.WithContext(ctx), ident).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return rows, nil
}

// SetPaymentIntent attaches the gateway order reference after creation.
func (r *Repository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_intent_id", paymentIntentID)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "saving payment intent")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// MarkPaid transitions an order to paid, guarded on the payment intent
// so a verification for a stale or mismatched gateway order never
// updates the row. Returns the number of rows updated.
func (r *Repository) MarkPaid(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, paymentIntentID string, updates map[string]any) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_intent_id = ?", orderID, paymentIntentID).
		Updates(updates)
	if result.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "updating order payment")
	}
	return result.RowsAffected, nil
}
