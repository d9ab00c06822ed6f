package reservations

import (
	"context"

	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages the soft holds placed against orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// Upsert writes the hold for (order, product). An existing row is
	// replaced, not accumulated: the new qty overwrites the old one.
	Upsert(ctx context.Context, reservation *models.Reservation) error
	ByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Reservation, error)
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
	// ReservedQty sums holds on a product across all orders except the
	// excluded one, so an order's own hold never blocks its availability.
	ReservedQty(ctx context.Context, productID uuid.UUID, excludeOrderID *uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Upsert(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"qty", "updated_at"}),
		}).
		Create(reservation).Error
}

func (r *repository) ByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Reservation{}).Error
}

func (r *repository) ReservedQty(ctx context.Context, productID uuid.UUID, excludeOrderID *uuid.UUID) (int, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("product_id = ?", productID)
	if excludeOrderID != nil {
		q = q.Where("order_id <> ?", *excludeOrderID)
	}
	var total int64
	if err := q.Select("COALESCE(SUM(qty), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}
