package payments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/cart"
	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/metrics"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/outbox"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/outbox/payloads"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/razorpay"
)

// VerifyInput carries the gateway callback fields presented by the
// client after a checkout attempt.
type VerifyInput struct {
	OrderID           uuid.UUID `json:"order_id"`
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	Signature         string    `json:"razorpay_signature"`
}

// VerifyResult reports the order state after a successful verification.
type VerifyResult struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentID     string    `json:"payment_id"`
}

// OrderStore is the order persistence slice the verifier needs.
type OrderStore interface {
	FindByIDForIdentity(ctx context.Context, id uuid.UUID, ident identity.Identity) (*models.Order, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, paymentIntentID string, updates map[string]any) (int64, error)
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OutboxPublisher records domain events transactionally.
type OutboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service settles gateway payments against pending orders.
type Service interface {
	Verify(ctx context.Context, ident identity.Identity, input VerifyInput) (*VerifyResult, error)
}

type service struct {
	orders   OrderStore
	cartRepo cart.CartRepository
	tx       TxRunner
	outbox   OutboxPublisher
	gateway  razorpay.Provider
	checkout *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams wires the payment verification dependencies.
type ServiceParams struct {
	Orders   OrderStore
	CartRepo cart.CartRepository
	Tx       TxRunner
	Outbox   OutboxPublisher
	Gateway  razorpay.Provider
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

// NewService constructs the payment verification service.
func NewService(p ServiceParams) (Service, error) {
	switch {
	case p.Orders == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order store is required")
	case p.CartRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository is required")
	case p.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	case p.Outbox == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox publisher is required")
	case p.Gateway == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway is required")
	case p.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		orders:   p.Orders,
		cartRepo: p.CartRepo,
		tx:       p.Tx,
		outbox:   p.Outbox,
		gateway:  p.Gateway,
		checkout: p.Metrics,
		logg:     p.Logger,
		now:      time.Now,
	}, nil
}

// Verify checks the gateway signature and capture state, then settles
// the pending order. The settling UPDATE is guarded on the stored
// payment intent so a callback for a different gateway order can never
// flip the row, and the shopper's cart is cleared in the same
// transaction.
func (s *service) Verify(ctx context.Context, ident identity.Identity, input VerifyInput) (*VerifyResult, error) {
	if ident.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a user or session identity is required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByIDForIdentity(ctx, input.OrderID, ident)
	if err != nil {
		return nil, err
	}

	if !s.gateway.VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.Signature) {
		s.checkout.IncPaymentVerification("invalid_signature")
		warnCtx := s.logg.WithFields(ctx, map[string]any{"order_id": order.ID})
		s.logg.Warn(warnCtx, "payment signature rejected")
		return nil, pkgerrors.New(pkgerrors.CodeInvalidSignature, "payment signature verification failed")
	}

	payment, err := s.gateway.FetchPayment(ctx, input.RazorpayPaymentID)
	if err != nil {
		s.checkout.IncPaymentVerification("gateway_error")
		return nil, err
	}
	if payment.Status != razorpay.PaymentStatusCaptured {
		s.checkout.IncPaymentVerification("not_captured")
		return nil, pkgerrors.New(pkgerrors.CodePaymentNotCaptured, "payment has not been captured").
			WithDetails(map[string]any{"payment_status": payment.Status})
	}

	paidAt := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.orders.MarkPaid(ctx, tx, order.ID, input.RazorpayOrderID, map[string]any{
			"status":         string(enums.OrderStatusProcessing),
			"payment_status": string(enums.PaymentStatusPaid),
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found for this payment")
		}
		if err := s.cartRepo.WithTx(tx).Clear(ctx, ident); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPaid,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: ident.UserID, SessionID: ident.SessionID},
			Data: payloads.OrderPaidEvent{
				OrderID:         order.ID,
				OrderNumber:     order.OrderNumber,
				PaymentID:       payment.ID,
				PaymentIntentID: input.RazorpayOrderID,
				AmountCents:     order.TotalCents,
				PaidAt:          paidAt,
			},
		})
	})
	if err != nil {
		s.checkout.IncPaymentVerification("order_mismatch")
		return nil, err
	}

	s.checkout.IncPaymentVerification("verified")
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"payment_id":   payment.ID,
	})
	s.logg.Info(logCtx, "payment verified")

	return &VerifyResult{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        string(enums.OrderStatusProcessing),
		PaymentStatus: string(enums.PaymentStatusPaid),
		PaymentID:     payment.ID,
	}, nil
}

func validateInput(input VerifyInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	missing := []string{}
	for field, value := range map[string]string{
		"razorpay_order_id":   input.RazorpayOrderID,
		"razorpay_payment_id": input.RazorpayPaymentID,
		"razorpay_signature":  input.Signature,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment verification fields are missing").
			WithDetails(map[string]any{"missing_fields": missing})
	}
	return nil
}
