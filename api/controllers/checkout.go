package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kibidoart/kibido-backend/api/middleware"
	"github.com/kibidoart/kibido-backend/api/responses"
	"github.com/kibidoart/kibido-backend/api/validators"
	"github.com/kibidoart/kibido-backend/internal/checkout"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

// CreateCheckoutHandoff snapshots the session cart and returns the WhatsApp
// deep link the storefront opens to finish the order.
func CreateCheckoutHandoff(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := svc.CreateHandoff(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

type productInquiryRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
}

// CreateProductInquiry returns a WhatsApp deep link asking about a single
// artwork, mirroring the per-card contact button.
func CreateProductInquiry(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productInquiryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id"))
			return
		}

		dto, err := svc.ProductInquiry(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminGetCheckoutHandoff returns a recorded hand-off for review.
func AdminGetCheckoutHandoff(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handoffID, err := urlParamUUID(r, "handoffId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetHandoff(r.Context(), handoffID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
