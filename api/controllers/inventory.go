package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bloomworks/bloomstock-backend/api/middleware"
	"github.com/bloomworks/bloomstock-backend/api/responses"
	"github.com/bloomworks/bloomstock-backend/api/validators"
	"github.com/bloomworks/bloomstock-backend/internal/inventory"
	"github.com/bloomworks/bloomstock-backend/internal/reservations"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
)

type batchResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	QtyIn      int             `json:"qty_in"`
	QtyLeft    int             `json:"qty_left"`
	BuyPrice   decimal.Decimal `json:"buy_price"`
	ArrivedAt  time.Time       `json:"arrived_at"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

type movementResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	BatchID   *uuid.UUID `json:"batch_id,omitempty"`
	Kind      string     `json:"kind"`
	Qty       int        `json:"qty"`
	Reason    string     `json:"reason,omitempty"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toBatchResponse(batch *models.Batch) batchResponse {
	return batchResponse{
		ID:         batch.ID,
		ProductID:  batch.ProductID,
		SupplierID: batch.SupplierID,
		QtyIn:      batch.QtyIn,
		QtyLeft:    batch.QtyLeft,
		BuyPrice:   batch.BuyPrice,
		ArrivedAt:  batch.ArrivedAt,
		ExpiresAt:  batch.ExpiresAt,
	}
}

func toMovementResponse(movement *models.Movement) movementResponse {
	return movementResponse{
		ID:        movement.ID,
		ProductID: movement.ProductID,
		BatchID:   movement.BatchID,
		Kind:      movement.Kind.String(),
		Qty:       movement.Qty,
		Reason:    movement.Reason,
		OrderID:   movement.OrderID,
		ActorID:   movement.ActorID,
		CreatedAt: movement.CreatedAt,
	}
}

type intakeRequest struct {
	ProductID  uuid.UUID       `json:"product_id" validate:"required"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	Qty        int             `json:"qty" validate:"required,gt=0"`
	BuyPrice   decimal.Decimal `json:"buy_price"`
	ArrivedAt  *time.Time      `json:"arrived_at,omitempty"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// InventoryIntake records a received delivery as a new batch.
func InventoryIntake(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload intakeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventory.IntakeInput{
			ProductID:  payload.ProductID,
			SupplierID: payload.SupplierID,
			Qty:        payload.Qty,
			BuyPrice:   payload.BuyPrice,
			ExpiresAt:  payload.ExpiresAt,
			ActorID:    middleware.ActorIDFromContext(r.Context()),
		}
		if payload.ArrivedAt != nil {
			input.ArrivedAt = *payload.ArrivedAt
		}

		batch, err := svc.Intake(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toBatchResponse(batch))
	}
}

type adjustRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	BatchID   *uuid.UUID `json:"batch_id,omitempty"`
	Qty       int        `json:"qty" validate:"required,gt=0"`
	Reason    string     `json:"reason" validate:"required,min=1"`
}

// InventoryAdjust appends an audit annotation to the ledger.
func InventoryAdjust(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload adjustRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movement, err := svc.Adjust(r.Context(), inventory.AdjustInput{
			ProductID: payload.ProductID,
			BatchID:   payload.BatchID,
			Qty:       payload.Qty,
			Reason:    payload.Reason,
			ActorID:   middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toMovementResponse(movement))
	}
}

type writeOffRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	Qty       int        `json:"qty" validate:"required,gt=0"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Reason    string     `json:"reason" validate:"required,min=1"`
}

// InventoryWriteOff consumes stock FIFO across the product's batches.
func InventoryWriteOff(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload writeOffRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.WriteOff(r.Context(), inventory.WriteOffInput{
			ProductID: payload.ProductID,
			Qty:       payload.Qty,
			OrderID:   payload.OrderID,
			Reason:    payload.Reason,
			ActorID:   middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// InventoryAvailability reports sellable quantity for one product.
func InventoryAvailability(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservations service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var excludeOrder *uuid.UUID
		if raw := r.URL.Query().Get("exclude_order"); raw != "" {
			id, perr := uuid.Parse(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "exclude_order must be a uuid"))
				return
			}
			excludeOrder = &id
		}

		available, err := svc.AvailableQty(r.Context(), productID, excludeOrder)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"product_id": productID,
			"available":  available,
		})
	}
}

// ProductMovements lists a product's ledger history, oldest first.
func ProductMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements, err := svc.MovementsByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]movementResponse, 0, len(movements))
		for i := range movements {
			payload = append(payload, toMovementResponse(&movements[i]))
		}
		responses.WriteSuccess(w, payload)
	}
}

// OrderMovements lists every ledger row an order produced, reserve through
// write-off, oldest first.
func OrderMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements, err := svc.MovementsByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]movementResponse, 0, len(movements))
		for i := range movements {
			payload = append(payload, toMovementResponse(&movements[i]))
		}
		responses.WriteSuccess(w, payload)
	}
}
