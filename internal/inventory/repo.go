package inventory

import (
	"context"

	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for batches and ledger movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, batch *models.Batch) error
	// BatchesForConsumption returns the product's batches that still carry
	// stock, locked for update, in FIFO order (arrival date, then insertion).
	BatchesForConsumption(ctx context.Context, productID uuid.UUID) ([]models.Batch, error)
	UpdateBatchQtyLeft(ctx context.Context, batchID uuid.UUID, qtyLeft int) error
	TotalQtyLeft(ctx context.Context, productID uuid.UUID) (int, error)
	CreateMovement(ctx context.Context, movement *models.Movement) error
	MovementsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Movement, error)
	MovementsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Movement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *repository) BatchesForConsumption(ctx context.Context, productID uuid.UUID) ([]models.Batch, error) {
	q := r.db.WithContext(ctx).
		Where("product_id = ? AND qty_left > 0", productID).
		// Ids are random uuids, so same-arrival batches tie-break on
		// created_at to keep insertion order; id only breaks exact ties.
		Order("arrived_at ASC, created_at ASC, id ASC")
	// sqlite (tests) has no FOR UPDATE; its writes are serialized anyway.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var batches []models.Batch
	if err := q.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *repository) UpdateBatchQtyLeft(ctx context.Context, batchID uuid.UUID, qtyLeft int) error {
	return r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", batchID).
		Update("qty_left", qtyLeft).Error
}

func (r *repository) TotalQtyLeft(ctx context.Context, productID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(qty_left), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) MovementsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Movement, error) {
	var movements []models.Movement
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) MovementsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Movement, error) {
	var movements []models.Movement
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
