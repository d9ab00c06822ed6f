package fulfillment

import (
	"sort"

	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/google/uuid"
)

// Requirement is the flat quantity of one product an order needs, after
// bouquet recipes have been expanded into their components.
type Requirement struct {
	ProductID uuid.UUID
	Qty       int
}

// expandRequirements flattens an order's line items into per-product
// quantities. Bouquet lines multiply the line qty through the recipe and
// accumulate under each component; two lines needing the same component sum.
func expandRequirements(items []models.OrderItem, products map[uuid.UUID]models.Product) ([]Requirement, error) {
	required := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order references unknown product")
		}
		if product.Kind != enums.ProductKindBouquet {
			required[item.ProductID] += item.Qty
			continue
		}
		if product.Recipe == nil || len(product.Recipe.Items) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeMissingRecipe, "bouquet has no recipe: "+product.Name)
		}
		for _, component := range product.Recipe.Items {
			required[component.ComponentID] += item.Qty * component.QtyPerUnit
		}
	}

	requirements := make([]Requirement, 0, len(required))
	for productID, qty := range required {
		requirements = append(requirements, Requirement{ProductID: productID, Qty: qty})
	}
	// Stable order keeps movement rows and lock acquisition deterministic.
	sort.Slice(requirements, func(i, j int) bool {
		return requirements[i].ProductID.String() < requirements[j].ProductID.String()
	})
	return requirements, nil
}

func productIDs(items []models.OrderItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
