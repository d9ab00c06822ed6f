package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloomworks/bloomstock-backend/internal/orders"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service registers payments and keeps each order's derived payment status
// consistent with the sum of its payments. It never touches inventory.
type Service interface {
	RegisterPayment(ctx context.Context, input RegisterPaymentInput) (*models.Payment, error)
	// RefreshStatus re-derives paid_total and payment_status from stored
	// payments, writing a history row only when the status changed.
	RefreshStatus(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*models.Order, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
	History(ctx context.Context, orderID uuid.UUID) ([]models.PaymentStatusHistory, error)
}

// RegisterPaymentInput records one received payment against an order.
type RegisterPaymentInput struct {
	OrderID     uuid.UUID
	Method      enums.PaymentMethod
	AmountCents int
	ActorID     *uuid.UUID
}

type service struct {
	repo   Repository
	orders orders.Repository
	tx     txRunner
	logg   *logger.Logger
}

// NewService wires the payment reconciliation service.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, orders: ordersRepo, tx: tx, logg: logg}, nil
}

// resolveStatus derives the payment status from amounts alone. refunded and
// canceled exist as statuses but nothing here produces them yet.
func resolveStatus(paidCents, totalCents int) enums.PaymentStatus {
	switch {
	case paidCents <= 0:
		return enums.PaymentStatusUnpaid
	case paidCents < totalCents:
		return enums.PaymentStatusPartiallyPaid
	default:
		return enums.PaymentStatusPaid
	}
}

func (s *service) RegisterPayment(ctx context.Context, input RegisterPaymentInput) (*models.Payment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	payment := &models.Payment{
		OrderID:     input.OrderID,
		Method:      input.Method,
		AmountCents: input.AmountCents,
		ActorID:     input.ActorID,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.loadOrder(ctx, tx, input.OrderID); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		return s.refreshStatusTx(ctx, tx, input.OrderID, input.ActorID)
	})
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, input.OrderID.String()), "payments.registered")
	}
	return payment, nil
}

func (s *service) RefreshStatus(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.refreshStatusTx(ctx, tx, orderID, actorID); err != nil {
			return err
		}
		order, err := s.loadOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) refreshStatusTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actorID *uuid.UUID) error {
	order, err := s.loadOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	paid, err := s.repo.WithTx(tx).SumAmountByOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
	}

	newStatus := resolveStatus(paid, order.TotalCents)
	updates := map[string]any{"paid_total_cents": paid}
	if newStatus != order.PaymentStatus {
		updates["payment_status"] = newStatus
		history := &models.PaymentStatusHistory{
			OrderID:   orderID,
			OldStatus: order.PaymentStatus,
			NewStatus: newStatus,
			ActorID:   actorID,
		}
		if err := s.repo.WithTx(tx).CreateHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record status change")
		}
	}
	if err := s.orders.WithTx(tx).Update(ctx, orderID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment fields")
	}
	return nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return rows, nil
}

func (s *service) History(ctx context.Context, orderID uuid.UUID) ([]models.PaymentStatusHistory, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.ListHistory(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list status history")
	}
	return rows, nil
}

func (s *service) loadOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.WithTx(tx).FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
