package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kofiadjei/sleekline-backend/api/middleware"
	"github.com/kofiadjei/sleekline-backend/api/responses"
	"github.com/kofiadjei/sleekline-backend/api/validators"
	checkoutsvc "github.com/kofiadjei/sleekline-backend/internal/checkout"
	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

// CheckoutShipping validates the shipping form and returns the next checkout
// state. A failed validation is still a 200: the state carries the field
// errors and stays on the shipping step.
func CheckoutShipping(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload shippingStepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := checkoutsvc.NewState(middleware.UserEmailFromContext(r.Context()))
		state = state.ApplyShipping(payload.toAddress()).AdvanceToDelivery()

		responses.WriteSuccess(w, state)
	}
}

// CheckoutSubmit runs the order submission pipeline for the session cart.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		var payload submitCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.SubmitInput{
			SessionID:         sessionID,
			VerificationToken: payload.VerificationToken,
			Shipping:          payload.Shipping.toAddress(),
			DeliveryMethod:    enums.DeliveryMethod(payload.DeliveryMethod),
			PaymentMethod:     enums.PaymentMethod(payload.PaymentMethod),
		}

		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			userID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
				return
			}
			input.UserID = &userID
		}

		result, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type shippingStepRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Region    string `json:"region"`
}

func (r shippingStepRequest) toAddress() types.ShippingAddress {
	return types.ShippingAddress{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		City:      r.City,
		Region:    r.Region,
	}
}

type submitCheckoutRequest struct {
	VerificationToken string              `json:"verification_token"`
	Shipping          shippingStepRequest `json:"shipping" validate:"required"`
	DeliveryMethod    string              `json:"delivery_method" validate:"required,oneof=pickup doorstep"`
	PaymentMethod     string              `json:"payment_method" validate:"required,oneof=moolre cod"`
}
