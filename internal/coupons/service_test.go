package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

type stubCouponRepo struct {
	coupon  *models.Coupon
	findErr error
	gotCode string
}

func (s *stubCouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.gotCode = code
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.coupon == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.coupon, nil
}

func newTestService(t *testing.T, repo CouponRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		Code:     "WELCOME10",
		Type:     enums.CouponTypePercentage.String(),
		Value:    decimal.NewFromInt(10),
		IsActive: true,
	}
}

func TestResolveSuccess(t *testing.T) {
	t.Parallel()

	repo := &stubCouponRepo{coupon: activeCoupon()}
	svc := newTestService(t, repo)

	got, err := svc.Resolve(context.Background(), "  WELCOME10 ", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "WELCOME10" {
		t.Fatalf("unexpected coupon %+v", got)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCouponRepo{})
	_, err := svc.Resolve(context.Background(), "NOPE", time.Now())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveInactiveCoupon(t *testing.T) {
	t.Parallel()

	coupon := activeCoupon()
	coupon.IsActive = false
	svc := newTestService(t, &stubCouponRepo{coupon: coupon})

	_, err := svc.Resolve(context.Background(), "WELCOME10", time.Now())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveExpiredCoupon(t *testing.T) {
	t.Parallel()

	expired := time.Now().Add(-time.Hour)
	coupon := activeCoupon()
	coupon.ExpiresAt = &expired
	svc := newTestService(t, &stubCouponRepo{coupon: coupon})

	_, err := svc.Resolve(context.Background(), "WELCOME10", time.Now())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveBlankCode(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCouponRepo{})
	_, err := svc.Resolve(context.Background(), "   ", time.Now())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
