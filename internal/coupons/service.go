package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

// CouponRepository defines the lookup surface required by the service.
type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// Service resolves coupon codes into applicable discount rules.
type Service interface {
	Resolve(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
}

type service struct {
	repo CouponRepository
}

// NewService builds the coupon service.
func NewService(repo CouponRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

// Resolve validates the code and returns the coupon when it can be applied.
func (s *service) Resolve(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is not active")
	}
	if coupon.ExpiresAt != nil && !coupon.ExpiresAt.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}
	if !enums.CouponType(coupon.Type).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon has unknown type")
	}
	return coupon, nil
}
