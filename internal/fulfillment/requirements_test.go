package fulfillment

import (
	"testing"

	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestExpandRequirementsBouquet(t *testing.T) {
	t.Parallel()

	rose := uuid.New()
	wrap := uuid.New()
	bouquet := uuid.New()

	products := map[uuid.UUID]models.Product{
		bouquet: {
			ID:   bouquet,
			Name: "Red Classic",
			Kind: enums.ProductKindBouquet,
			Recipe: &models.Recipe{
				ProductID: bouquet,
				Items: []models.RecipeItem{
					{ComponentID: rose, QtyPerUnit: 11},
					{ComponentID: wrap, QtyPerUnit: 1},
				},
			},
		},
	}

	requirements, err := expandRequirements([]models.OrderItem{
		{ProductID: bouquet, Qty: 2},
	}, products)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}

	byProduct := map[uuid.UUID]int{}
	for _, requirement := range requirements {
		byProduct[requirement.ProductID] = requirement.Qty
	}
	if byProduct[rose] != 22 {
		t.Fatalf("expected 22 roses, got %d", byProduct[rose])
	}
	if byProduct[wrap] != 2 {
		t.Fatalf("expected 2 wraps, got %d", byProduct[wrap])
	}
}

func TestExpandRequirementsSumsSharedComponents(t *testing.T) {
	t.Parallel()

	rose := uuid.New()
	bouquet := uuid.New()

	products := map[uuid.UUID]models.Product{
		rose: {ID: rose, Name: "Rose", Kind: enums.ProductKindSimple},
		bouquet: {
			ID:   bouquet,
			Name: "Mono",
			Kind: enums.ProductKindBouquet,
			Recipe: &models.Recipe{
				ProductID: bouquet,
				Items:     []models.RecipeItem{{ComponentID: rose, QtyPerUnit: 5}},
			},
		},
	}

	// A bare rose line plus a bouquet using roses must add up on the
	// same component key.
	requirements, err := expandRequirements([]models.OrderItem{
		{ProductID: rose, Qty: 3},
		{ProductID: bouquet, Qty: 2},
	}, products)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(requirements) != 1 {
		t.Fatalf("expected one merged requirement, got %d", len(requirements))
	}
	if requirements[0].ProductID != rose || requirements[0].Qty != 13 {
		t.Fatalf("expected 13 roses, got %+v", requirements[0])
	}
}

func TestExpandRequirementsMissingRecipe(t *testing.T) {
	t.Parallel()

	bouquet := uuid.New()
	products := map[uuid.UUID]models.Product{
		bouquet: {ID: bouquet, Name: "Broken", Kind: enums.ProductKindBouquet},
	}

	_, err := expandRequirements([]models.OrderItem{{ProductID: bouquet, Qty: 1}}, products)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeMissingRecipe {
		t.Fatalf("expected missing recipe error, got %v", err)
	}
}

func TestExpandRequirementsUnknownProduct(t *testing.T) {
	t.Parallel()

	_, err := expandRequirements([]models.OrderItem{{ProductID: uuid.New(), Qty: 1}}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
