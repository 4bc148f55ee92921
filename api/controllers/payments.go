package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/api/responses"
	"github.com/dhruvmehta-dev/storefront-backend/api/validators"
	"github.com/dhruvmehta-dev/storefront-backend/internal/payments"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
)

type verifyPaymentRequest struct {
	OrderID           uuid.UUID `json:"order_id" validate:"required"`
	RazorpayOrderID   string    `json:"razorpay_order_id" validate:"required,max=64"`
	RazorpayPaymentID string    `json:"razorpay_payment_id" validate:"required,max=64"`
	Signature         string    `json:"razorpay_signature" validate:"required,max=256"`
}

// PaymentsVerify settles a gateway payment against its pending order.
func PaymentsVerify(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Verify(r.Context(), ident, payments.VerifyInput{
			OrderID:           payload.OrderID,
			RazorpayOrderID:   payload.RazorpayOrderID,
			RazorpayPaymentID: payload.RazorpayPaymentID,
			Signature:         payload.Signature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
