package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/bloomworks/bloomstock-backend/internal/inventory"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reservations_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Batch{}, &models.Movement{}, &models.Reservation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db), inventory.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func seedStock(t *testing.T, db *gorm.DB, productID uuid.UUID, qty int) {
	t.Helper()
	batch := models.Batch{ProductID: productID, QtyIn: qty, QtyLeft: qty, ArrivedAt: time.Now().UTC()}
	if err := db.Create(&batch).Error; err != nil {
		t.Fatalf("seed batch: %v", err)
	}
}

func TestReserveUpsertReplacesQty(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	productID := uuid.New()

	reserve := func(qty int) {
		t.Helper()
		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.ReserveTx(ctx, tx, orderID, []Line{{ProductID: productID, Qty: qty}}, nil)
		})
		if err != nil {
			t.Fatalf("reserve %d: %v", qty, err)
		}
	}
	reserve(5)
	reserve(2)

	var rows []models.Reservation
	if err := db.Find(&rows, "order_id = ?", orderID).Error; err != nil {
		t.Fatalf("load reservations: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row per (order, product), got %d", len(rows))
	}
	// Re-reserving overwrites the held qty; it does not add to it.
	if rows[0].Qty != 2 {
		t.Fatalf("expected replaced qty 2, got %d", rows[0].Qty)
	}

	var movements []models.Movement
	if err := db.Find(&movements, "order_id = ? AND kind = ?", orderID, enums.MovementKindReserve).Error; err != nil {
		t.Fatalf("load movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected a ledger entry per reserve call, got %d", len(movements))
	}
}

func TestReleaseRemovesHoldsAndWritesLedger(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ReserveTx(ctx, tx, orderID, []Line{
			{ProductID: productA, Qty: 3},
			{ProductID: productB, Qty: 1},
		}, nil)
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ReleaseTx(ctx, tx, orderID, nil)
	}); err != nil {
		t.Fatalf("release: %v", err)
	}

	var count int64
	if err := db.Model(&models.Reservation{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		t.Fatalf("count reservations: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected all holds removed, got %d", count)
	}

	var releases []models.Movement
	if err := db.Find(&releases, "order_id = ? AND kind = ?", orderID, enums.MovementKindRelease).Error; err != nil {
		t.Fatalf("load release movements: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 release movements, got %d", len(releases))
	}
}

func TestAvailableQtySubtractsOtherOrdersOnly(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	productID := uuid.New()
	myOrder := uuid.New()
	otherOrder := uuid.New()
	seedStock(t, db, productID, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := svc.ReserveTx(ctx, tx, myOrder, []Line{{ProductID: productID, Qty: 4}}, nil); err != nil {
			return err
		}
		return svc.ReserveTx(ctx, tx, otherOrder, []Line{{ProductID: productID, Qty: 3}}, nil)
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	available, err := svc.AvailableQty(ctx, productID, nil)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if available != 3 {
		t.Fatalf("expected 3 available overall, got %d", available)
	}

	available, err = svc.AvailableQty(ctx, productID, &myOrder)
	if err != nil {
		t.Fatalf("available excluding own order: %v", err)
	}
	if available != 7 {
		t.Fatalf("expected 7 available when own hold excluded, got %d", available)
	}
}

func TestAvailableQtyFloorsAtZero(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	productID := uuid.New()
	seedStock(t, db, productID, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ReserveTx(ctx, tx, uuid.New(), []Line{{ProductID: productID, Qty: 5}}, nil)
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	available, err := svc.AvailableQty(ctx, productID, nil)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if available != 0 {
		t.Fatalf("expected availability floored at 0, got %d", available)
	}
}
