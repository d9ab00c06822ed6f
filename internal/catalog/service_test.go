package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
)

type testTx struct {
	db *gorm.DB
}

func (r *testTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Recipe{}, &models.RecipeItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(db), &testTx{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func TestCreateSimpleProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Rose",
		Kind: enums.ProductKindSimple,
		Unit: enums.ProductUnitStem,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("expected an assigned product id")
	}
	if !product.Active {
		t.Fatal("new products start active")
	}
	if product.Recipe != nil {
		t.Fatal("simple products carry no recipe")
	}
}

func TestCreateBouquetWithRecipe(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	rose, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Rose", Kind: enums.ProductKindSimple})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	wrap, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Wrap", Kind: enums.ProductKindMaterial})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	bouquet, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Dozen Roses",
		Kind: enums.ProductKindBouquet,
		Recipe: []RecipeLine{
			{ComponentID: rose.ID, QtyPerUnit: 12},
			{ComponentID: wrap.ID, QtyPerUnit: 1},
		},
	})
	if err != nil {
		t.Fatalf("create bouquet: %v", err)
	}
	if bouquet.Recipe == nil || len(bouquet.Recipe.Items) != 2 {
		t.Fatalf("expected 2 recipe lines, got %+v", bouquet.Recipe)
	}

	fetched, err := svc.GetProduct(ctx, bouquet.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if fetched.Recipe == nil || len(fetched.Recipe.Items) != 2 {
		t.Fatal("recipe lines must be preloaded on reads")
	}
}

func TestCreateBouquetRequiresRecipe(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Empty Bouquet",
		Kind: enums.ProductKindBouquet,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBouquetRejectsBouquetComponents(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	rose, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Rose", Kind: enums.ProductKindSimple})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	inner, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:   "Posy",
		Kind:   enums.ProductKindBouquet,
		Recipe: []RecipeLine{{ComponentID: rose.ID, QtyPerUnit: 3}},
	})
	if err != nil {
		t.Fatalf("create inner bouquet: %v", err)
	}

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		Name:   "Nested",
		Kind:   enums.ProductKindBouquet,
		Recipe: []RecipeLine{{ComponentID: inner.ID, QtyPerUnit: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nested bouquet, got %v", err)
	}
}

func TestCreateProductRejectsRecipeOnSimple(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:   "Rose",
		Kind:   enums.ProductKindSimple,
		Recipe: []RecipeLine{{ComponentID: uuid.New(), QtyPerUnit: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
