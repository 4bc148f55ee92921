package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/api/middleware"
	"github.com/dhruvmehta-dev/storefront-backend/api/responses"
	"github.com/dhruvmehta-dev/storefront-backend/api/validators"
	addresssvc "github.com/dhruvmehta-dev/storefront-backend/internal/address"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
)

type createAddressRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Line1     string  `json:"address" validate:"required,max=255"`
	City      string  `json:"city" validate:"required,max=100"`
	State     string  `json:"state" validate:"required,max=100"`
	ZipCode   string  `json:"zip_code" validate:"required,max=20"`
	Country   string  `json:"country" validate:"required,max=2"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type addressResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Line1     string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	Phone     *string   `json:"phone,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// AddressesList returns the signed-in user's address book.
func AddressesList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]addressResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toAddressResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AddressesCreate saves a new shipping address. The user's first
// address becomes their default.
func AddressesCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), userID, addresssvc.CreateInput{
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Line1:     payload.Line1,
			City:      payload.City,
			State:     payload.State,
			ZipCode:   payload.ZipCode,
			Country:   payload.Country,
			Phone:     payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toAddressResponse(created))
	}
}

// AddressesDelete removes an address owned by the user.
func AddressesDelete(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "addressID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}
		if err := svc.Delete(r.Context(), id, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func requireUserID(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return userID, nil
}

func toAddressResponse(row *models.Address) addressResponse {
	return addressResponse{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Line1:     row.Line1,
		City:      row.City,
		State:     row.State,
		ZipCode:   row.ZipCode,
		Country:   row.Country,
		Phone:     row.Phone,
		IsDefault: row.IsDefault,
		CreatedAt: row.CreatedAt,
	}
}
