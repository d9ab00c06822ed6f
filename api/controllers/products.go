package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bloomworks/bloomstock-backend/api/responses"
	"github.com/bloomworks/bloomstock-backend/api/validators"
	"github.com/bloomworks/bloomstock-backend/internal/catalog"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
)

type recipeLineResponse struct {
	ComponentID uuid.UUID `json:"component_id"`
	QtyPerUnit  int       `json:"qty_per_unit"`
}

type productResponse struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Kind   string               `json:"kind"`
	Unit   string               `json:"unit"`
	Active bool                 `json:"active"`
	Recipe []recipeLineResponse `json:"recipe,omitempty"`
}

func toProductResponse(product *models.Product) productResponse {
	resp := productResponse{
		ID:     product.ID,
		Name:   product.Name,
		Kind:   product.Kind.String(),
		Unit:   product.Unit.String(),
		Active: product.Active,
	}
	if product.Recipe != nil {
		for _, item := range product.Recipe.Items {
			resp.Recipe = append(resp.Recipe, recipeLineResponse{
				ComponentID: item.ComponentID,
				QtyPerUnit:  item.QtyPerUnit,
			})
		}
	}
	return resp
}

type recipeLineRequest struct {
	ComponentID uuid.UUID `json:"component_id" validate:"required"`
	QtyPerUnit  int       `json:"qty_per_unit" validate:"required,gt=0"`
}

type createProductRequest struct {
	Name   string              `json:"name" validate:"required,min=1"`
	Kind   string              `json:"kind" validate:"required,oneof=simple material bouquet"`
	Unit   string              `json:"unit" validate:"omitempty,oneof=piece stem bunch meter"`
	Recipe []recipeLineRequest `json:"recipe" validate:"omitempty,dive"`
}

// ProductCreate registers a catalog entry, with its recipe for bouquets.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateProductInput{
			Name: payload.Name,
			Kind: enums.ProductKind(payload.Kind),
			Unit: enums.ProductUnit(payload.Unit),
		}
		for _, line := range payload.Recipe {
			input.Recipe = append(input.Recipe, catalog.RecipeLine{
				ComponentID: line.ComponentID,
				QtyPerUnit:  line.QtyPerUnit,
			})
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toProductResponse(product))
	}
}

// ProductGet returns one catalog entry with its recipe lines.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponse(product))
	}
}
