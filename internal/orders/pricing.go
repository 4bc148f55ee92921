package orders

import (
	"github.com/shopspring/decimal"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

// Quote is the priced breakdown of an order. All amounts are minor units.
type Quote struct {
	SubtotalCents int64
	DiscountCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

// ShippingFeeCents applies the configured tier: standard ships free
// above the threshold, express and priority are flat.
func ShippingFeeCents(cfg config.PricingConfig, method enums.ShippingMethod, subtotalCents int64) (int64, error) {
	switch method {
	case enums.ShippingMethodStandard:
		if subtotalCents > cfg.FreeShippingThresholdCents {
			return 0, nil
		}
		return cfg.StandardShippingFeeCents, nil
	case enums.ShippingMethodExpress:
		return cfg.ExpressShippingFeeCents, nil
	case enums.ShippingMethodPriority:
		return cfg.PriorityShippingFeeCents, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
}

// CouponDiscountCents computes the discount a coupon grants on the
// subtotal. Percentage coupons round to the nearest minor unit; the
// result never exceeds the subtotal.
func CouponDiscountCents(coupon *models.Coupon, subtotalCents int64) (int64, error) {
	if coupon == nil {
		return 0, nil
	}
	var discount int64
	switch enums.CouponType(coupon.Type) {
	case enums.CouponTypePercentage:
		discount = decimal.NewFromInt(subtotalCents).
			Mul(coupon.Value).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case enums.CouponTypeFixed:
		discount = coupon.Value.Round(0).IntPart()
	default:
		return 0, pkgerrors.New(pkgerrors.CodeInternal, "coupon has unknown type")
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	return discount, nil
}

// ComputeQuote prices an order. Tax applies to the discounted goods
// value, not to shipping. The total never goes below zero.
func ComputeQuote(cfg config.PricingConfig, subtotalCents int64, method enums.ShippingMethod, coupon *models.Coupon, applyTax bool) (Quote, error) {
	shipping, err := ShippingFeeCents(cfg, method, subtotalCents)
	if err != nil {
		return Quote{}, err
	}
	discount, err := CouponDiscountCents(coupon, subtotalCents)
	if err != nil {
		return Quote{}, err
	}

	taxable := subtotalCents - discount
	if taxable < 0 {
		taxable = 0
	}

	var tax int64
	if applyTax {
		rate, err := cfg.TaxRateDecimal()
		if err != nil {
			return Quote{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid tax rate")
		}
		tax = decimal.NewFromInt(taxable).Mul(rate).Round(0).IntPart()
	}

	total := taxable + shipping + tax
	if total < 0 {
		total = 0
	}

	return Quote{
		SubtotalCents: subtotalCents,
		DiscountCents: discount,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    total,
	}, nil
}
