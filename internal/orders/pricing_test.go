package orders

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		TaxRate:                    "0.18",
		Currency:                   "INR",
		FreeShippingThresholdCents: 50000,
		StandardShippingFeeCents:   10000,
		ExpressShippingFeeCents:    19900,
		PriorityShippingFeeCents:   29900,
	}
}

func TestShippingFeeCents(t *testing.T) {
	t.Parallel()

	cfg := testPricing()
	cases := []struct {
		name     string
		method   enums.ShippingMethod
		subtotal int64
		want     int64
	}{
		{"standard below threshold", enums.ShippingMethodStandard, 20000, 10000},
		{"standard at threshold still pays", enums.ShippingMethodStandard, 50000, 10000},
		{"standard above threshold ships free", enums.ShippingMethodStandard, 50001, 0},
		{"express is flat", enums.ShippingMethodExpress, 100000, 19900},
		{"priority is flat", enums.ShippingMethodPriority, 100000, 29900},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ShippingFeeCents(cfg, tc.method, tc.subtotal)
			if err != nil {
				t.Fatalf("ShippingFeeCents() returned unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ShippingFeeCents() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestShippingFeeCents_InvalidMethod(t *testing.T) {
	t.Parallel()

	_, err := ShippingFeeCents(testPricing(), enums.ShippingMethod("teleport"), 1000)
	if err == nil {
		t.Fatal("expected an error for an unknown shipping method")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCouponDiscountCents(t *testing.T) {
	t.Parallel()

	percentage := &models.Coupon{
		Code:  "WELCOME10",
		Type:  string(enums.CouponTypePercentage),
		Value: decimal.NewFromInt(10),
	}
	fixed := &models.Coupon{
		Code:  "FLAT500",
		Type:  string(enums.CouponTypeFixed),
		Value: decimal.NewFromInt(500),
	}

	cases := []struct {
		name     string
		coupon   *models.Coupon
		subtotal int64
		want     int64
	}{
		{"nil coupon grants nothing", nil, 10000, 0},
		{"percentage of subtotal", percentage, 10000, 1000},
		{"percentage rounds to nearest cent", percentage, 10005, 1001},
		{"fixed amount", fixed, 10000, 500},
		{"fixed capped at subtotal", fixed, 300, 300},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := CouponDiscountCents(tc.coupon, tc.subtotal)
			if err != nil {
				t.Fatalf("CouponDiscountCents() returned unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("CouponDiscountCents() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComputeQuote_TaxOnDiscountedGoods(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{
		Code:  "WELCOME10",
		Type:  string(enums.CouponTypePercentage),
		Value: decimal.NewFromInt(10),
	}
	quote, err := ComputeQuote(testPricing(), 10000, enums.ShippingMethodStandard, coupon, true)
	if err != nil {
		t.Fatalf("ComputeQuote() returned unexpected error: %v", err)
	}
	if quote.DiscountCents != 1000 {
		t.Fatalf("unexpected discount %d", quote.DiscountCents)
	}
	// 18% of the 9000 discounted goods value, shipping untaxed.
	if quote.TaxCents != 1620 {
		t.Fatalf("unexpected tax %d", quote.TaxCents)
	}
	if quote.ShippingCents != 10000 {
		t.Fatalf("unexpected shipping %d", quote.ShippingCents)
	}
	if want := int64(9000 + 1620 + 10000); quote.TotalCents != want {
		t.Fatalf("ComputeQuote() total = %d, want %d", quote.TotalCents, want)
	}
}

func TestComputeQuote_NoTaxForGatewayOrders(t *testing.T) {
	t.Parallel()

	quote, err := ComputeQuote(testPricing(), 10000, enums.ShippingMethodExpress, nil, false)
	if err != nil {
		t.Fatalf("ComputeQuote() returned unexpected error: %v", err)
	}
	if quote.TaxCents != 0 {
		t.Fatalf("expected zero tax, got %d", quote.TaxCents)
	}
	if want := int64(10000 + 19900); quote.TotalCents != want {
		t.Fatalf("ComputeQuote() total = %d, want %d", quote.TotalCents, want)
	}
}

func TestComputeQuote_FullDiscountNeverGoesNegative(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{
		Code:  "EVERYTHING",
		Type:  string(enums.CouponTypeFixed),
		Value: decimal.NewFromInt(99999),
	}
	quote, err := ComputeQuote(testPricing(), 5000, enums.ShippingMethodStandard, coupon, true)
	if err != nil {
		t.Fatalf("ComputeQuote() returned unexpected error: %v", err)
	}
	if quote.DiscountCents != 5000 {
		t.Fatalf("discount should cap at subtotal, got %d", quote.DiscountCents)
	}
	if quote.TaxCents != 0 {
		t.Fatalf("no taxable value should mean no tax, got %d", quote.TaxCents)
	}
	if quote.TotalCents != 10000 {
		t.Fatalf("total should be shipping only, got %d", quote.TotalCents)
	}
}
