package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/api/middleware"
	"github.com/dhruvmehta-dev/storefront-backend/api/responses"
	"github.com/dhruvmehta-dev/storefront-backend/api/validators"
	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/internal/orders"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
)

type createOrderRequest struct {
	Email          *string                      `json:"email,omitempty" validate:"omitempty,email"`
	AddressID      *uuid.UUID                   `json:"address_id,omitempty"`
	Address        *shippingAddressRequest      `json:"shipping_address,omitempty"`
	ShippingMethod string                       `json:"shipping_method" validate:"required"`
	CouponCode     *string                      `json:"coupon_code,omitempty"`
	Source         string                       `json:"source,omitempty" validate:"omitempty,max=32"`
}

type shippingAddressRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Line1     string  `json:"address" validate:"required,max=255"`
	City      string  `json:"city" validate:"required,max=100"`
	State     string  `json:"state" validate:"required,max=100"`
	ZipCode   string  `json:"zip_code" validate:"required,max=20"`
	Country   string  `json:"country" validate:"required,max=2"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// OrdersCreate places a cash-on-delivery order from the current cart.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, ident, err := decodeCreateOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CreateOrder(r.Context(), ident, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersCreatePending places a gateway order awaiting payment.
func OrdersCreatePending(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, ident, err := decodeCreateOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CreatePendingOrder(r.Context(), ident, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersGet returns one of the shopper's orders.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}
		order, err := svc.GetOrder(r.Context(), ident, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersList returns the shopper's order history.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListOrders(r.Context(), ident, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrdersListByUser returns an authenticated user's order history. The
// path user must be the caller; shoppers cannot read each other's
// orders.
func OrdersListByUser(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID := middleware.UserIDFromContext(r.Context())
		if callerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}
		if userID != callerID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "orders belong to another user"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListOrders(r.Context(), identity.FromUser(userID), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func decodeCreateOrder(r *http.Request) (orders.CreateOrderInput, identity.Identity, error) {
	ident, err := shopperIdentity(r)
	if err != nil {
		return orders.CreateOrderInput{}, identity.Identity{}, err
	}

	var payload createOrderRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return orders.CreateOrderInput{}, identity.Identity{}, err
	}

	input := orders.CreateOrderInput{
		Email:          payload.Email,
		AddressID:      payload.AddressID,
		ShippingMethod: payload.ShippingMethod,
		CouponCode:     validators.NormalizeCode(payload.CouponCode),
		Source:         payload.Source,
	}
	if payload.Address != nil {
		input.Address = &orders.ShippingAddressInput{
			FirstName: validators.SanitizeString(payload.Address.FirstName, 100),
			LastName:  validators.SanitizeString(payload.Address.LastName, 100),
			Line1:     validators.SanitizeString(payload.Address.Line1, 255),
			City:      validators.SanitizeString(payload.Address.City, 100),
			State:     validators.SanitizeString(payload.Address.State, 100),
			ZipCode:   validators.SanitizeString(payload.Address.ZipCode, 20),
			Country:   validators.SanitizeString(payload.Address.Country, 100),
		}
		if payload.Address.Phone != nil {
			phone := validators.SanitizeString(*payload.Address.Phone, 20)
			input.Address.Phone = &phone
		}
	}
	return input, ident, nil
}
