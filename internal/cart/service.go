package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

// StockDetails is attached to insufficient stock errors so clients can
// adjust the requested quantity.
type StockDetails struct {
	ProductID uuid.UUID `json:"product_id"`
	Available int       `json:"available"`
	Requested int       `json:"requested"`
}

// AddItemInput carries a cart write request.
type AddItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// Service exposes cart operations for a resolved identity.
type Service interface {
	GetCart(ctx context.Context, ident identity.Identity) (CartDTO, error)
	AddItem(ctx context.Context, ident identity.Identity, input AddItemInput) (CartDTO, error)
	UpdateItem(ctx context.Context, ident identity.Identity, itemID uuid.UUID, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, ident identity.Identity, itemID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, ident identity.Identity) error
}

type service struct {
	repo     CartRepository
	products ProductLoader
}

// NewService builds the cart service.
func NewService(repo CartRepository, products ProductLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) GetCart(ctx context.Context, ident identity.Identity) (CartDTO, error) {
	if ident.IsZero() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no cart identity")
	}
	rows, err := s.repo.ListItems(ctx, ident)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return toCartDTO(rows), nil
}

// AddItem is additive: a repeated add for the same (product, variant)
// increases the existing row's quantity instead of duplicating it. The
// combined quantity is validated against available stock.
func (s *service) AddItem(ctx context.Context, ident identity.Identity, input AddItemInput) (CartDTO, error) {
	if ident.IsZero() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no cart identity")
	}
	if input.ProductID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity <= 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadSellableProduct(ctx, input.ProductID)
	if err != nil {
		return CartDTO{}, err
	}

	existing, err := s.repo.FindItem(ctx, ident, input.ProductID, input.VariantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	targetQty := input.Quantity
	if existing != nil {
		targetQty += existing.Quantity
	}
	if targetQty > product.AvailableQuantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").
			WithDetails(StockDetails{
				ProductID: product.ID,
				Available: product.AvailableQuantity,
				Requested: targetQty,
			})
	}

	if existing != nil {
		if err := s.repo.UpdateQuantity(ctx, existing.ID, targetQty); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
	} else {
		item := models.CartItem{
			UserID:    ident.UserID,
			SessionID: ident.SessionID,
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  input.Quantity,
		}
		if err := s.repo.Create(ctx, &item); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
		}
	}

	return s.GetCart(ctx, ident)
}

func (s *service) UpdateItem(ctx context.Context, ident identity.Identity, itemID uuid.UUID, quantity int) (CartDTO, error) {
	if ident.IsZero() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no cart identity")
	}
	if itemID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if quantity <= 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	rows, err := s.repo.ListItems(ctx, ident)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	var target *models.CartItem
	for i := range rows {
		if rows[i].ID == itemID {
			target = &rows[i]
			break
		}
	}
	if target == nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	product, err := s.loadSellableProduct(ctx, target.ProductID)
	if err != nil {
		return CartDTO{}, err
	}
	if quantity > product.AvailableQuantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").
			WithDetails(StockDetails{
				ProductID: product.ID,
				Available: product.AvailableQuantity,
				Requested: quantity,
			})
	}

	if err := s.repo.UpdateQuantity(ctx, target.ID, quantity); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.GetCart(ctx, ident)
}

func (s *service) RemoveItem(ctx context.Context, ident identity.Identity, itemID uuid.UUID) (CartDTO, error) {
	if ident.IsZero() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no cart identity")
	}
	if itemID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	affected, err := s.repo.DeleteItem(ctx, ident, itemID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	if affected == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.GetCart(ctx, ident)
}

func (s *service) Clear(ctx context.Context, ident identity.Identity) error {
	if ident.IsZero() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no cart identity")
	}
	if err := s.repo.Clear(ctx, ident); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) loadSellableProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
