package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bloomworks/bloomstock-backend/api/middleware"
	"github.com/bloomworks/bloomstock-backend/api/responses"
	"github.com/bloomworks/bloomstock-backend/api/validators"
	"github.com/bloomworks/bloomstock-backend/internal/fulfillment"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
)

type orderItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	Qty           int       `json:"qty"`
	PriceCents    int       `json:"price_cents"`
	DiscountCents int       `json:"discount_cents"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	TotalCents     int                 `json:"total_cents"`
	PaidTotalCents int                 `json:"paid_total_cents"`
	Notes          *string             `json:"notes,omitempty"`
	Items          []orderItemResponse `json:"items"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	CanceledAt     *time.Time          `json:"canceled_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

func toOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Qty:           item.Qty,
			PriceCents:    item.PriceCents,
			DiscountCents: item.DiscountCents,
		})
	}
	return orderResponse{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		Status:         order.Status.String(),
		PaymentStatus:  order.PaymentStatus.String(),
		TotalCents:     order.TotalCents,
		PaidTotalCents: order.PaidTotalCents,
		Notes:          order.Notes,
		Items:          items,
		DeliveredAt:    order.DeliveredAt,
		CanceledAt:     order.CanceledAt,
		CreatedAt:      order.CreatedAt,
	}
}

type orderItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	Qty           int       `json:"qty" validate:"required,gt=0"`
	PriceCents    int       `json:"price_cents" validate:"gte=0"`
	DiscountCents int       `json:"discount_cents" validate:"gte=0"`
}

type createOrderRequest struct {
	CustomerID *uuid.UUID         `json:"customer_id,omitempty"`
	Status     string             `json:"status,omitempty" validate:"omitempty,oneof=draft confirmed"`
	Items      []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      *string            `json:"notes,omitempty"`
}

// OrderCreate opens a new order and places holds for its expanded lines.
func OrderCreate(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fulfillment service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]fulfillment.OrderItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, fulfillment.OrderItemInput{
				ProductID:     item.ProductID,
				Qty:           item.Qty,
				PriceCents:    item.PriceCents,
				DiscountCents: item.DiscountCents,
			})
		}

		order, err := svc.CreateOrder(r.Context(), fulfillment.CreateOrderInput{
			CustomerID: payload.CustomerID,
			Status:     enums.OrderStatus(payload.Status),
			Items:      items,
			Notes:      payload.Notes,
			ActorID:    middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderResponse(order))
	}
}

// OrderGet returns one order with its items.
func OrderGet(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fulfillment service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=draft confirmed in_assembly ready delivered canceled"`
}

// OrderTransition moves an order through the fulfillment state machine,
// applying the inventory effects the target status implies.
func OrderTransition(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fulfillment service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Transition(r.Context(), fulfillment.TransitionInput{
			OrderID:   orderID,
			NewStatus: enums.OrderStatus(payload.Status),
			ActorID:   middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}
