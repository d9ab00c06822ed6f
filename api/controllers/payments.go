package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bloomworks/bloomstock-backend/api/middleware"
	"github.com/bloomworks/bloomstock-backend/api/responses"
	"github.com/bloomworks/bloomstock-backend/api/validators"
	"github.com/bloomworks/bloomstock-backend/internal/payments"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
)

type paymentResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	Method      string    `json:"method"`
	AmountCents int       `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPaymentResponse(payment *models.Payment) paymentResponse {
	return paymentResponse{
		ID:          payment.ID,
		OrderID:     payment.OrderID,
		Method:      payment.Method.String(),
		AmountCents: payment.AmountCents,
		CreatedAt:   payment.CreatedAt,
	}
}

type registerPaymentRequest struct {
	Method      string `json:"method" validate:"required,oneof=cash card transfer"`
	AmountCents int    `json:"amount_cents" validate:"required,gt=0"`
}

// PaymentRegister records a received payment and re-derives the order's
// payment status.
func PaymentRegister(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload registerPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.RegisterPayment(r.Context(), payments.RegisterPaymentInput{
			OrderID:     orderID,
			Method:      enums.PaymentMethod(payload.Method),
			AmountCents: payload.AmountCents,
			ActorID:     middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toPaymentResponse(payment))
	}
}

// PaymentList returns an order's payments, oldest first.
func PaymentList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload := make([]paymentResponse, 0, len(rows))
		for i := range rows {
			payload = append(payload, toPaymentResponse(&rows[i]))
		}
		responses.WriteSuccess(w, payload)
	}
}

// PaymentRefresh re-derives paid_total and payment status from stored
// payments. Useful after manual datastore corrections.
func PaymentRefresh(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RefreshStatus(r.Context(), orderID, middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

type paymentHistoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	OrderID   uuid.UUID  `json:"order_id"`
	OldStatus string     `json:"old_status"`
	NewStatus string     `json:"new_status"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PaymentHistory lists the order's payment status changes, oldest first.
func PaymentHistory(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.History(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]paymentHistoryResponse, 0, len(rows))
		for _, row := range rows {
			payload = append(payload, paymentHistoryResponse{
				ID:        row.ID,
				OrderID:   row.OrderID,
				OldStatus: row.OldStatus.String(),
				NewStatus: row.NewStatus.String(),
				ActorID:   row.ActorID,
				CreatedAt: row.CreatedAt,
			})
		}
		responses.WriteSuccess(w, payload)
	}
}
