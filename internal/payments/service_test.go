package payments

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/cart"
	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/outbox"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/razorpay"
)

func testPaymentsLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

type stubOrderStore struct {
	order      *models.Order
	markedPaid bool
	markRows   int64
}

func (s *stubOrderStore) FindByIDForIdentity(_ context.Context, id uuid.UUID, ident identity.Identity) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if ident.SessionID == nil || s.order.SessionID == nil || *ident.SessionID != *s.order.SessionID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s *stubOrderStore) MarkPaid(_ context.Context, _ *gorm.DB, orderID uuid.UUID, paymentIntentID string, _ map[string]any) (int64, error) {
	if s.order == nil || s.order.ID != orderID {
		return 0, nil
	}
	if s.order.PaymentIntentID == nil || *s.order.PaymentIntentID != paymentIntentID {
		return 0, nil
	}
	s.markedPaid = true
	return s.markRows, nil
}

type stubCartRepo struct {
	cleared bool
}

func (s *stubCartRepo) WithTx(_ *gorm.DB) cart.CartRepository { return s }

func (s *stubCartRepo) ListItems(_ context.Context, _ identity.Identity) ([]models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) FindItem(_ context.Context, _ identity.Identity, _ uuid.UUID, _ *uuid.UUID) (*models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) Create(_ context.Context, _ *models.CartItem) error { return nil }

func (s *stubCartRepo) UpdateQuantity(_ context.Context, _ uuid.UUID, _ int) error { return nil }

func (s *stubCartRepo) DeleteItem(_ context.Context, _ identity.Identity, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubCartRepo) Clear(_ context.Context, _ identity.Identity) error {
	s.cleared = true
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubGateway struct {
	signatureOK   bool
	payment       *razorpay.Payment
	fetchErr      error
	fetchedID     string
	verifiedCalls int
}

func (s *stubGateway) CreateOrder(_ context.Context, _ int64, _, _ string) (*razorpay.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubGateway) FetchPayment(_ context.Context, paymentID string) (*razorpay.Payment, error) {
	s.fetchedID = paymentID
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.payment, nil
}

func (s *stubGateway) VerifySignature(_, _, _ string) bool {
	s.verifiedCalls++
	return s.signatureOK
}

type fixture struct {
	orders  *stubOrderStore
	cart    *stubCartRepo
	outbox  *stubOutbox
	gateway *stubGateway
	svc     Service
}

func pendingOrder(sessionID string) *models.Order {
	intent := "order_rzp_123"
	return &models.Order{
		ID:              uuid.New(),
		OrderNumber:     "ORD-1756728000000-A1B2C",
		SessionID:       &sessionID,
		Status:          string(enums.OrderStatusPending),
		PaymentStatus:   string(enums.PaymentStatusPending),
		TotalCents:      49900,
		Currency:        "INR",
		PaymentIntentID: &intent,
	}
}

func newFixture(t *testing.T, order *models.Order) *fixture {
	t.Helper()
	f := &fixture{
		orders: &stubOrderStore{order: order, markRows: 1},
		cart:   &stubCartRepo{},
		outbox: &stubOutbox{},
		gateway: &stubGateway{
			signatureOK: true,
			payment:     &razorpay.Payment{ID: "pay_456", Status: razorpay.PaymentStatusCaptured},
		},
	}
	svc, err := NewService(ServiceParams{
		Orders:   f.orders,
		CartRepo: f.cart,
		Tx:       stubTx{},
		Outbox:   f.outbox,
		Gateway:  f.gateway,
		Logger:   testPaymentsLogger(),
	})
	if err != nil {
		t.Fatalf("NewService() returned unexpected error: %v", err)
	}
	f.svc = svc
	return f
}

func validVerifyInput(orderID uuid.UUID) VerifyInput {
	return VerifyInput{
		OrderID:           orderID,
		RazorpayOrderID:   "order_rzp_123",
		RazorpayPaymentID: "pay_456",
		Signature:         "deadbeef",
	}
}

func TestVerify_Settles(t *testing.T) {
	t.Parallel()

	order := pendingOrder("sess-1")
	f := newFixture(t, order)

	result, err := f.svc.Verify(context.Background(), identity.FromSession("sess-1"), validVerifyInput(order.ID))
	if err != nil {
		t.Fatalf("Verify() returned unexpected error: %v", err)
	}

	if result.Status != "processing" || result.PaymentStatus != "paid" {
		t.Fatalf("unexpected result state %+v", result)
	}
	if result.PaymentID != "pay_456" {
		t.Fatalf("unexpected payment id %q", result.PaymentID)
	}
	if !f.orders.markedPaid {
		t.Fatal("the order row should have been settled")
	}
	if !f.cart.cleared {
		t.Fatal("the cart should be cleared once payment settles")
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventOrderPaid {
		t.Fatalf("unexpected outbox events %v", f.outbox.events)
	}
}

func TestVerify_InvalidSignature(t *testing.T) {
	t.Parallel()

	order := pendingOrder("sess-1")
	f := newFixture(t, order)
	f.gateway.signatureOK = false

	_, err := f.svc.Verify(context.Background(), identity.FromSession("sess-1"), validVerifyInput(order.ID))
	if err == nil {
		t.Fatal("expected a signature rejection")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeInvalidSignature {
		t.Fatalf("unexpected error code %q", code)
	}
	if f.gateway.fetchedID != "" {
		t.Fatal("a rejected signature must not reach the gateway")
	}
	if f.orders.markedPaid || f.cart.cleared {
		t.Fatal("nothing should settle on a rejected signature")
	}
}

func TestVerify_PaymentNotCaptured(t *testing.T) {
	t.Parallel()

	order := pendingOrder("sess-1")
	f := newFixture(t, order)
	f.gateway.payment = &razorpay.Payment{ID: "pay_456", Status: "authorized"}

	_, err := f.svc.Verify(context.Background(), identity.FromSession("sess-1"), validVerifyInput(order.ID))
	if err == nil {
		t.Fatal("expected an uncaptured payment to be rejected")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodePaymentNotCaptured {
		t.Fatalf("unexpected error code %q", code)
	}
	if f.orders.markedPaid {
		t.Fatal("an uncaptured payment must not settle the order")
	}
}

func TestVerify_MismatchedIntent(t *testing.T) {
	t.Parallel()

	order := pendingOrder("sess-1")
	f := newFixture(t, order)

	input := validVerifyInput(order.ID)
	input.RazorpayOrderID = "order_rzp_other"

	_, err := f.svc.Verify(context.Background(), identity.FromSession("sess-1"), input)
	if err == nil {
		t.Fatal("expected a mismatched gateway order to be rejected")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code %q", code)
	}
	if f.cart.cleared {
		t.Fatal("the cart must survive a rejected settlement")
	}
}

func TestVerify_OtherShopperCannotSettle(t *testing.T) {
	t.Parallel()

	order := pendingOrder("sess-1")
	f := newFixture(t, order)

	_, err := f.svc.Verify(context.Background(), identity.FromSession("sess-other"), validVerifyInput(order.ID))
	if err == nil {
		t.Fatal("expected another session to be rejected")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestVerify_MissingFields(t *testing.T) {
	t.Parallel()

	order := pendingOrder("sess-1")
	f := newFixture(t, order)

	input := validVerifyInput(order.ID)
	input.Signature = ""

	_, err := f.svc.Verify(context.Background(), identity.FromSession("sess-1"), input)
	if err == nil {
		t.Fatal("expected missing fields to be rejected")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code %q", code)
	}
}
