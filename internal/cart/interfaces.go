package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	ListItems(ctx context.Context, ident identity.Identity) ([]models.CartItem, error)
	FindItem(ctx context.Context, ident identity.Identity, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, ident identity.Identity, id uuid.UUID) (int64, error)
	Clear(ctx context.Context, ident identity.Identity) error
}

// ProductLoader resolves products during cart writes.
type ProductLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
