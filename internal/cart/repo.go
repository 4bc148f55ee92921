package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
)

// Repository exposes persistence operations for cart items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// identityScope narrows a query to the rows owned by the identity. The
// canonical identity carries exactly one predicate, never both.
func identityScope(query *gorm.DB, ident identity.Identity) *gorm.DB {
	if ident.UserID != nil {
		return query.Where("user_id = ?", *ident.UserID)
	}
	return query.Where("session_id = ?", *ident.SessionID)
}

// ListItems returns the identity's cart rows with products preloaded.
func (r *Repository) ListItems(ctx context.Context, ident identity.Identity) ([]models.CartItem, error) {
	var rows []models.CartItem
	query := identityScope(r.db.WithContext(ctx), ident).
		Preload("Product").
		Preload("Product.Images").
		Order("created_at ASC")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindItem loads the identity's row for (product, variant) if present.
func (r *Repository) FindItem(ctx context.Context, ident identity.Identity, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error) {
	var row models.CartItem
	query := identityScope(r.db.WithContext(ctx), ident).
		Where("product_id = ?", productID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	if err := query.First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new cart row.
func (r *Repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets the quantity on an existing row.
func (r *Repository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

// DeleteItem removes a single row owned by the identity.
func (r *Repository) DeleteItem(ctx context.Context, ident identity.Identity, id uuid.UUID) (int64, error) {
	res := identityScope(r.db.WithContext(ctx), ident).
		Where("id = ?", id).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// Clear removes every row owned by the identity.
func (r *Repository) Clear(ctx context.Context, ident identity.Identity) error {
	return identityScope(r.db.WithContext(ctx), ident).
		Delete(&models.CartItem{}).Error
}
