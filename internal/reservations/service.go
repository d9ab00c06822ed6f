package reservations

import (
	"context"
	"fmt"

	"github.com/bloomworks/bloomstock-backend/internal/inventory"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Line is one product hold requested for an order.
type Line struct {
	ProductID uuid.UUID
	Qty       int
}

// Service places, releases and reports soft holds. Holding stock writes
// ledger movements but never touches batch quantities; only write-offs do.
type Service interface {
	ReserveTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []Line, actorID *uuid.UUID) error
	ReleaseTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actorID *uuid.UUID) error
	// DropTx deletes an order's holds without writing release entries.
	// Used when physical consumption supersedes the soft hold.
	DropTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	ByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Reservation, error)
	// AvailableQty is physical stock minus holds by other orders, floored
	// at zero. Pass the order interested in the answer so its own hold is
	// not counted against it.
	AvailableQty(ctx context.Context, productID uuid.UUID, excludeOrderID *uuid.UUID) (int, error)
	AvailableQtyTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, excludeOrderID *uuid.UUID) (int, error)
}

type service struct {
	repo    Repository
	invRepo inventory.Repository
}

// NewService wires the reservation service.
func NewService(repo Repository, invRepo inventory.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if invRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo, invRepo: invRepo}, nil
}

func (s *service) ReserveTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []Line, actorID *uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	repo := s.repo.WithTx(tx)
	invRepo := s.invRepo.WithTx(tx)
	for _, line := range lines {
		if line.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
		}
		reservation := &models.Reservation{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Qty:       line.Qty,
		}
		if err := repo.Upsert(ctx, reservation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert reservation")
		}
		movement := &models.Movement{
			ProductID: line.ProductID,
			Kind:      enums.MovementKindReserve,
			Qty:       line.Qty,
			Reason:    "order confirmed",
			OrderID:   &orderID,
			ActorID:   actorID,
		}
		if err := invRepo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record reserve movement")
		}
	}
	return nil
}

func (s *service) ReleaseTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actorID *uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	repo := s.repo.WithTx(tx)
	invRepo := s.invRepo.WithTx(tx)
	held, err := repo.ByOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservations")
	}
	for _, reservation := range held {
		movement := &models.Movement{
			ProductID: reservation.ProductID,
			Kind:      enums.MovementKindRelease,
			Qty:       reservation.Qty,
			Reason:    "hold released",
			OrderID:   &orderID,
			ActorID:   actorID,
		}
		if err := invRepo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record release movement")
		}
	}
	if err := repo.DeleteByOrder(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reservations")
	}
	return nil
}

func (s *service) DropTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := s.repo.WithTx(tx).DeleteByOrder(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reservations")
	}
	return nil
}

func (s *service) ByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Reservation, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	held, err := s.repo.ByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservations")
	}
	return held, nil
}

func (s *service) AvailableQty(ctx context.Context, productID uuid.UUID, excludeOrderID *uuid.UUID) (int, error) {
	return s.AvailableQtyTx(ctx, nil, productID, excludeOrderID)
}

func (s *service) AvailableQtyTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, excludeOrderID *uuid.UUID) (int, error) {
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	total, err := s.invRepo.WithTx(tx).TotalQtyLeft(ctx, productID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum batch stock")
	}
	reserved, err := s.repo.WithTx(tx).ReservedQty(ctx, productID, excludeOrderID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum reservations")
	}
	available := total - reserved
	if available < 0 {
		available = 0
	}
	return available, nil
}
