package orders

import (
	"context"
	"testing"

	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return db
}

func TestCreateAndFindOrderWithItems(t *testing.T) {
	t.Parallel()

	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		Status:        enums.OrderStatusDraft,
		PaymentStatus: enums.PaymentStatusUnpaid,
		TotalCents:    12500,
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Qty: 2, PriceCents: 5000},
			{ProductID: uuid.New(), Qty: 1, PriceCents: 2500},
		},
	}

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDraft, found.Status)
	assert.Equal(t, 12500, found.TotalCents)
	assert.Len(t, found.Items, 2)
}

func TestFindOrderNotFound(t *testing.T) {
	t.Parallel()

	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateOrderFields(t *testing.T) {
	t.Parallel()

	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order, err := repo.Create(ctx, &models.Order{
		Status:        enums.OrderStatusDraft,
		PaymentStatus: enums.PaymentStatusUnpaid,
		TotalCents:    1000,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, order.ID, map[string]any{
		"status": enums.OrderStatusConfirmed,
	}))
	require.NoError(t, repo.Update(ctx, order.ID, map[string]any{
		"payment_status":   enums.PaymentStatusPartiallyPaid,
		"paid_total_cents": 400,
	}))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, found.Status)
	assert.Equal(t, enums.PaymentStatusPartiallyPaid, found.PaymentStatus)
	assert.Equal(t, 400, found.PaidTotalCents)
}
