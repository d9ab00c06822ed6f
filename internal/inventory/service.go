package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
	"github.com/bloomworks/bloomstock-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReasonOverdraft tags the batch-less OUT movement written when a write-off
// exceeds physically available stock.
const ReasonOverdraft = "overdraft"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the batch ledger: intake, audit adjustments and FIFO write-offs.
type Service interface {
	Intake(ctx context.Context, input IntakeInput) (*models.Batch, error)
	Adjust(ctx context.Context, input AdjustInput) (*models.Movement, error)
	WriteOff(ctx context.Context, input WriteOffInput) error
	// WriteOffTx runs the FIFO write-off inside an externally owned
	// transaction so order transitions can consume stock atomically with
	// their status update.
	WriteOffTx(ctx context.Context, tx *gorm.DB, input WriteOffInput) error
	MovementsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Movement, error)
	MovementsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Movement, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.InventoryMetrics
}

// IntakeInput captures one received delivery of a product.
type IntakeInput struct {
	ProductID  uuid.UUID
	SupplierID *uuid.UUID
	Qty        int
	BuyPrice   decimal.Decimal
	ArrivedAt  time.Time
	ExpiresAt  *time.Time
	ActorID    *uuid.UUID
}

// AdjustInput annotates the ledger for audit/correction purposes.
type AdjustInput struct {
	ProductID uuid.UUID
	BatchID   *uuid.UUID
	Qty       int
	Reason    string
	ActorID   *uuid.UUID
}

// WriteOffInput requests a FIFO consumption of physical stock.
type WriteOffInput struct {
	ProductID uuid.UUID
	Qty       int
	OrderID   *uuid.UUID
	Reason    string
	ActorID   *uuid.UUID
}

// NewService wires the inventory ledger service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, m *metrics.InventoryMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg, metrics: m}, nil
}

func (s *service) Intake(ctx context.Context, input IntakeInput) (*models.Batch, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "intake quantity must be positive")
	}
	if input.ArrivedAt.IsZero() {
		input.ArrivedAt = time.Now().UTC()
	}

	batch := &models.Batch{
		ProductID:  input.ProductID,
		SupplierID: input.SupplierID,
		QtyIn:      input.Qty,
		QtyLeft:    input.Qty,
		BuyPrice:   input.BuyPrice,
		ArrivedAt:  input.ArrivedAt,
		ExpiresAt:  input.ExpiresAt,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateBatch(ctx, batch); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create batch")
		}
		movement := &models.Movement{
			ProductID: input.ProductID,
			BatchID:   &batch.ID,
			Kind:      enums.MovementKindIn,
			Qty:       input.Qty,
			Reason:    "intake",
			ActorID:   input.ActorID,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record intake movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Adjust records an ADJUST movement only. It deliberately leaves every batch's
// qty_left untouched; the ledger entry is an annotation, not a correction of
// physical stock.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.Movement, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjust quantity must be positive")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjust reason required")
	}

	movement := &models.Movement{
		ProductID: input.ProductID,
		BatchID:   input.BatchID,
		Kind:      enums.MovementKindAdjust,
		Qty:       input.Qty,
		Reason:    input.Reason,
		ActorID:   input.ActorID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record adjust movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) WriteOff(ctx context.Context, input WriteOffInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.WriteOffTx(ctx, tx, input)
	})
}

func (s *service) WriteOffTx(ctx context.Context, tx *gorm.DB, input WriteOffInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "write-off quantity must be positive")
	}

	started := time.Now()
	repo := s.repo.WithTx(tx)

	// The row locks on the product's batches serialize concurrent write-offs
	// for the same product; FIFO order is the lock acquisition order.
	batches, err := repo.BatchesForConsumption(ctx, input.ProductID)
	if err != nil {
		return s.storeErr(err, "lock batches for write-off")
	}

	remaining := input.Qty
	for i := range batches {
		if remaining == 0 {
			break
		}
		batch := &batches[i]
		take := batch.QtyLeft
		if take > remaining {
			take = remaining
		}
		batch.QtyLeft -= take
		if err := repo.UpdateBatchQtyLeft(ctx, batch.ID, batch.QtyLeft); err != nil {
			return s.storeErr(err, "decrement batch qty")
		}
		movement := &models.Movement{
			ProductID: input.ProductID,
			BatchID:   &batch.ID,
			Kind:      enums.MovementKindOut,
			Qty:       take,
			Reason:    input.Reason,
			OrderID:   input.OrderID,
			ActorID:   input.ActorID,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return s.storeErr(err, "record out movement")
		}
		remaining -= take
	}

	outcome := "ok"
	if remaining > 0 {
		// Physical shortfall: record the fact and let the transaction
		// commit. Oversold stock is tracked, not rejected.
		movement := &models.Movement{
			ProductID: input.ProductID,
			Kind:      enums.MovementKindOut,
			Qty:       remaining,
			Reason:    ReasonOverdraft,
			OrderID:   input.OrderID,
			ActorID:   input.ActorID,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return s.storeErr(err, "record overdraft movement")
		}
		if s.logg != nil {
			wctx := s.logg.WithFields(ctx, map[string]any{
				"product_id": input.ProductID.String(),
				"requested":  input.Qty,
				"short":      remaining,
			})
			s.logg.Warn(wctx, "inventory.write_off.overdraft")
		}
		s.metrics.IncOverdraft(input.ProductID.String())
		outcome = "overdraft"
	}

	s.metrics.ObserveWriteOff(outcome, time.Since(started))
	return nil
}

func (s *service) MovementsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Movement, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	movements, err := s.repo.MovementsByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movements")
	}
	return movements, nil
}

func (s *service) MovementsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Movement, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	movements, err := s.repo.MovementsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movements")
	}
	return movements, nil
}

func (s *service) storeErr(err error, msg string) error {
	if pkgerrors.IsLockTimeout(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wait timed out")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
