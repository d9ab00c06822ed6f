package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomworks/bloomstock-backend/pkg/db"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
)

// RecipeLine is one component entry supplied when registering a bouquet.
type RecipeLine struct {
	ComponentID uuid.UUID
	QtyPerUnit  int
}

type CreateProductInput struct {
	Name   string
	Kind   enums.ProductKind
	Unit   enums.ProductUnit
	Recipe []RecipeLine
}

type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown product kind: %s", input.Kind))
	}
	if input.Kind == enums.ProductKindBouquet && len(input.Recipe) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bouquet products require at least one recipe line")
	}
	if input.Kind != enums.ProductKindBouquet && len(input.Recipe) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only bouquet products carry a recipe")
	}

	product := &models.Product{
		Name:   input.Name,
		Kind:   input.Kind,
		Unit:   input.Unit,
		Active: true,
	}
	if product.Unit == "" {
		product.Unit = enums.ProductUnitPiece
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if len(input.Recipe) > 0 {
			recipe := &models.Recipe{}
			for _, line := range input.Recipe {
				if line.QtyPerUnit <= 0 {
					return pkgerrors.New(pkgerrors.CodeValidation, "recipe qty per unit must be positive")
				}
				component, err := repo.FindProduct(ctx, line.ComponentID)
				if err != nil {
					return err
				}
				// Recipes stay one level deep; a bouquet cannot be built
				// out of other bouquets.
				if component.Kind == enums.ProductKindBouquet {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("bouquet %s cannot be used as a recipe component", component.Name))
				}
				recipe.Items = append(recipe.Items, models.RecipeItem{
					ComponentID: line.ComponentID,
					QtyPerUnit:  line.QtyPerUnit,
				})
			}
			product.Recipe = recipe
		}

		if err := repo.CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "recipes") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already has a recipe")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindProduct(ctx, product.ID)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.FindProduct(ctx, id)
}
