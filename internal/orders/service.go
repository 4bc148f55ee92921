package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/internal/cart"
	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/metrics"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/outbox"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/outbox/payloads"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/razorpay"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// StockDetails is attached to insufficient stock errors so clients can
// show which line blocked checkout.
type StockDetails struct {
	ProductID uuid.UUID `json:"product_id"`
	Available int       `json:"available"`
	Requested int       `json:"requested"`
}

// Service assembles orders from carts and exposes the order history.
type Service interface {
	CreateOrder(ctx context.Context, ident identity.Identity, input CreateOrderInput) (*OrderDTO, error)
	CreatePendingOrder(ctx context.Context, ident identity.Identity, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, ident identity.Identity, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, ident identity.Identity, limit, offset int) ([]SummaryDTO, error)
}

type service struct {
	repo      OrderRepository
	cartRepo  cart.CartRepository
	stock     StockAdjuster
	coupons   CouponResolver
	addresses AddressLoader
	tx        TxRunner
	outbox    OutboxPublisher
	gateway   razorpay.Provider
	checkout  *metrics.CheckoutMetrics
	pricing   config.PricingConfig
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repo      OrderRepository
	CartRepo  cart.CartRepository
	Stock     StockAdjuster
	Coupons   CouponResolver
	Addresses AddressLoader
	Tx        TxRunner
	Outbox    OutboxPublisher
	Gateway   razorpay.Provider
	Metrics   *metrics.CheckoutMetrics
	Pricing   config.PricingConfig
	Logger    *logger.Logger
}

// NewService constructs the order service.
func NewService(p ServiceParams) (Service, error) {
	switch {
	case p.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repository is required")
	case p.CartRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository is required")
	case p.Stock == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock adjuster is required")
	case p.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	case p.Outbox == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox publisher is required")
	case p.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		repo:      p.Repo,
		cartRepo:  p.CartRepo,
		stock:     p.Stock,
		coupons:   p.Coupons,
		addresses: p.Addresses,
		tx:        p.Tx,
		outbox:    p.Outbox,
		gateway:   p.Gateway,
		checkout:  p.Metrics,
		pricing:   p.Pricing,
		logg:      p.Logger,
		now:       time.Now,
	}, nil
}

// CreateOrder assembles a cash-on-delivery order. Stock is reserved,
// the order is committed as confirmed and the cart is cleared, all in
// one transaction.
func (s *service) CreateOrder(ctx context.Context, ident identity.Identity, input CreateOrderInput) (*OrderDTO, error) {
	started := s.now()
	method := string(enums.PaymentMethodCOD)

	order, rows, err := s.assemble(ctx, ident, input, enums.PaymentMethodCOD)
	if err != nil {
		s.checkout.IncOrderFailed(method, string(pkgerrors.As(err).Code()))
		return nil, err
	}
	order.Status = string(enums.OrderStatusConfirmed)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.reserveStock(ctx, tx, rows); err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).Clear(ctx, ident); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(ident),
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				PaymentMethod: order.PaymentMethod,
				TotalCents:    order.TotalCents,
				Currency:      order.Currency,
			},
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCartConverted,
			AggregateType: enums.AggregateCart,
			AggregateID:   order.ID,
			Actor:         actorRef(ident),
			Data: payloads.CartConvertedEvent{
				OrderID:   order.ID,
				ItemCount: len(rows),
			},
		})
	})
	if err != nil {
		s.checkout.IncOrderFailed(method, string(pkgerrors.As(err).Code()))
		return nil, err
	}

	s.checkout.IncOrderCreated(method)
	s.checkout.ObserveOrderDuration(method, s.now().Sub(started))
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_cents":  order.TotalCents,
	})
	s.logg.Info(logCtx, "order created")

	return toOrderDTO(order), nil
}

// CreatePendingOrder assembles a gateway order awaiting payment. The
// order commits as pending with zero tax, the cart stays intact until
// payment verification, and the gateway order is created after commit.
func (s *service) CreatePendingOrder(ctx context.Context, ident identity.Identity, input CreateOrderInput) (*OrderDTO, error) {
	started := s.now()
	method := string(enums.PaymentMethodRazorpay)

	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway is not configured")
	}

	order, rows, err := s.assemble(ctx, ident, input, enums.PaymentMethodRazorpay)
	if err != nil {
		s.checkout.IncOrderFailed(method, string(pkgerrors.As(err).Code()))
		return nil, err
	}
	order.Status = string(enums.OrderStatusPending)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.reserveStock(ctx, tx, rows); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		s.checkout.IncOrderFailed(method, string(pkgerrors.As(err).Code()))
		return nil, err
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, order.TotalCents, order.Currency, order.OrderNumber)
	if err != nil {
		s.checkout.IncOrderFailed(method, string(pkgerrors.As(err).Code()))
		errCtx := s.logg.WithFields(ctx, map[string]any{"order_id": order.ID})
		s.logg.Error(errCtx, "gateway order creation failed", err)
		return nil, err
	}

	if err := s.repo.SetPaymentIntent(ctx, order.ID, gatewayOrder.ID); err != nil {
		return nil, err
	}
	order.PaymentIntentID = &gatewayOrder.ID

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPending,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(ident),
			Data: payloads.OrderPendingEvent{
				OrderID:         order.ID,
				OrderNumber:     order.OrderNumber,
				PaymentIntentID: gatewayOrder.ID,
				TotalCents:      order.TotalCents,
				Currency:        order.Currency,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.checkout.IncOrderCreated(method)
	s.checkout.ObserveOrderDuration(method, s.now().Sub(started))
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":          order.ID,
		"order_number":      order.OrderNumber,
		"payment_intent_id": gatewayOrder.ID,
	})
	s.logg.Info(logCtx, "pending order created")

	return toOrderDTO(order), nil
}

// GetOrder returns a single order owned by the identity.
func (s *service) GetOrder(ctx context.Context, ident identity.Identity, id uuid.UUID) (*OrderDTO, error) {
	if ident.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a user or session identity is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByIDForIdentity(ctx, id, ident)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// ListOrders returns the identity's order history, newest first.
func (s *service) ListOrders(ctx context.Context, ident identity.Identity, limit, offset int) ([]SummaryDTO, error) {
	if ident.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a user or session identity is required")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.repo.ListForIdentity(ctx, ident, limit, offset)
	if err != nil {
		return nil, err
	}
	summaries := make([]SummaryDTO, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummaryDTO(&rows[i]))
	}
	return summaries, nil
}

// assemble loads the cart, prices it and builds the unsaved order row.
// Tax is charged on cash orders only; gateway orders are taxed by the
// gateway flow downstream.
func (s *service) assemble(ctx context.Context, ident identity.Identity, input CreateOrderInput, payMethod enums.PaymentMethod) (*models.Order, []models.CartItem, error) {
	if ident.IsZero() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a user or session identity is required")
	}

	shipMethod, err := enums.ParseShippingMethod(input.ShippingMethod)
	if err != nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}

	address, err := s.resolveShippingAddress(ctx, ident, input)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.cartRepo.ListItems(ctx, ident)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(rows) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	items := make([]models.OrderItem, 0, len(rows))
	var subtotal int64
	for _, row := range rows {
		if row.Product == nil || !row.Product.IsActive {
			return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "a cart item is no longer available").
				WithDetails(map[string]any{"product_id": row.ProductID})
		}
		lineTotal := row.Product.PriceCents * int64(row.Quantity)
		items = append(items, models.OrderItem{
			ProductID:      row.ProductID,
			VariantID:      row.VariantID,
			ProductName:    row.Product.Name,
			SKU:            row.Product.SKU,
			Quantity:       row.Quantity,
			UnitPriceCents: row.Product.PriceCents,
			TotalCents:     lineTotal,
		})
		subtotal += lineTotal
	}

	var coupon *models.Coupon
	if input.CouponCode != nil && strings.TrimSpace(*input.CouponCode) != "" {
		if s.coupons == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon resolver is not configured")
		}
		coupon, err = s.coupons.Resolve(ctx, *input.CouponCode, s.now())
		if err != nil {
			// Unknown, inactive or expired codes do not block checkout.
			switch pkgerrors.As(err).Code() {
			case pkgerrors.CodeNotFound, pkgerrors.CodeValidation:
				logCtx := s.logg.WithFields(ctx, map[string]any{"coupon_code": *input.CouponCode})
				s.logg.Warn(logCtx, "coupon not applied")
				coupon = nil
			default:
				return nil, nil, err
			}
		}
	}

	applyTax := payMethod == enums.PaymentMethodCOD
	quote, err := ComputeQuote(s.pricing, subtotal, shipMethod, coupon, applyTax)
	if err != nil {
		return nil, nil, err
	}

	number, err := GenerateOrderNumber(s.now())
	if err != nil {
		return nil, nil, err
	}

	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = "web"
	}

	order := &models.Order{
		OrderNumber:       number,
		UserID:            ident.UserID,
		SessionID:         ident.SessionID,
		Email:             input.Email,
		PaymentStatus:     string(enums.PaymentStatusPending),
		FulfillmentStatus: string(enums.FulfillmentStatusUnfulfilled),
		SubtotalCents:     quote.SubtotalCents,
		TaxCents:          quote.TaxCents,
		ShippingCents:     quote.ShippingCents,
		DiscountCents:     quote.DiscountCents,
		TotalCents:        quote.TotalCents,
		Currency:          s.pricing.Currency,
		ShippingMethod:    shipMethod.String(),
		PaymentMethod:     payMethod.String(),
		Source:            source,
		ShippingFirstName: address.FirstName,
		ShippingLastName:  address.LastName,
		ShippingAddress:   address.Line1,
		ShippingCity:      address.City,
		ShippingState:     address.State,
		ShippingZip:       address.ZipCode,
		ShippingCountry:   address.Country,
		ShippingPhone:     address.Phone,
		Items:             items,
	}
	if coupon != nil {
		code := coupon.Code
		order.CouponCode = &code
	}
	return order, rows, nil
}

// reserveStock conditionally decrements stock for every line. A line
// that cannot be satisfied aborts the transaction.
func (s *service) reserveStock(ctx context.Context, tx *gorm.DB, rows []models.CartItem) error {
	for _, row := range rows {
		affected, err := s.stock.DecrementStock(ctx, tx, row.ProductID, row.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserving stock")
		}
		if affected == 0 {
			available := 0
			if row.Product != nil {
				available = row.Product.AvailableQuantity
			}
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for a cart item").
				WithDetails(StockDetails{
					ProductID: row.ProductID,
					Available: available,
					Requested: row.Quantity,
				})
		}
	}
	return nil
}

func (s *service) resolveShippingAddress(ctx context.Context, ident identity.Identity, input CreateOrderInput) (*ShippingAddressInput, error) {
	if input.AddressID != nil {
		if s.addresses == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "address loader is not configured")
		}
		if ident.UserID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "saved addresses require a signed in user")
		}
		saved, err := s.addresses.Get(ctx, *input.AddressID, *ident.UserID)
		if err != nil {
			return nil, err
		}
		return &ShippingAddressInput{
			FirstName: saved.FirstName,
			LastName:  saved.LastName,
			Line1:     saved.Line1,
			City:      saved.City,
			State:     saved.State,
			ZipCode:   saved.ZipCode,
			Country:   saved.Country,
			Phone:     saved.Phone,
		}, nil
	}

	addr := input.Address
	if addr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a shipping address is required")
	}
	missing := []string{}
	for field, value := range map[string]string{
		"first_name": addr.FirstName,
		"last_name":  addr.LastName,
		"address":    addr.Line1,
		"city":       addr.City,
		"state":      addr.State,
		"zip_code":   addr.ZipCode,
		"country":    addr.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"missing_fields": missing})
	}
	return addr, nil
}

func actorRef(ident identity.Identity) *outbox.ActorRef {
	return &outbox.ActorRef{UserID: ident.UserID, SessionID: ident.SessionID}
}
