package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloomworks/bloomstock-backend/internal/catalog"
	"github.com/bloomworks/bloomstock-backend/internal/inventory"
	"github.com/bloomworks/bloomstock-backend/internal/orders"
	"github.com/bloomworks/bloomstock-backend/internal/reservations"
	"github.com/bloomworks/bloomstock-backend/pkg/db/models"
	"github.com/bloomworks/bloomstock-backend/pkg/enums"
	pkgerrors "github.com/bloomworks/bloomstock-backend/pkg/errors"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
	"github.com/bloomworks/bloomstock-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the order status state machine and the inventory side
// effects each transition carries. Status write and inventory effect share
// one transaction; neither persists without the other.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	orders       orders.Repository
	catalog      catalog.Repository
	inventory    inventory.Service
	reservations reservations.Service
	tx           txRunner
	logg         *logger.Logger
	metrics      *metrics.InventoryMetrics
}

// OrderItemInput is one requested product line.
type OrderItemInput struct {
	ProductID     uuid.UUID
	Qty           int
	PriceCents    int
	DiscountCents int
}

// CreateOrderInput creates an order and places its initial holds.
type CreateOrderInput struct {
	CustomerID *uuid.UUID
	Status     enums.OrderStatus
	Items      []OrderItemInput
	Notes      *string
	ActorID    *uuid.UUID
}

// TransitionInput requests one status change for an existing order.
type TransitionInput struct {
	OrderID   uuid.UUID
	NewStatus enums.OrderStatus
	ActorID   *uuid.UUID
}

// NewService wires the fulfillment state machine.
func NewService(
	ordersRepo orders.Repository,
	catalogRepo catalog.Repository,
	inventorySvc inventory.Service,
	reservationsSvc reservations.Service,
	tx txRunner,
	logg *logger.Logger,
	m *metrics.InventoryMetrics,
) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if reservationsSvc == nil {
		return nil, fmt.Errorf("reservations service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		orders:       ordersRepo,
		catalog:      catalogRepo,
		inventory:    inventorySvc,
		reservations: reservationsSvc,
		tx:           tx,
		logg:         logg,
		metrics:      m,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	status := input.Status
	if status == "" {
		status = enums.OrderStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	total := 0
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.PriceCents < 0 || item.DiscountCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item amounts must not be negative")
		}
		total += item.Qty*item.PriceCents - item.DiscountCents
		items = append(items, models.OrderItem{
			ProductID:     item.ProductID,
			Qty:           item.Qty,
			PriceCents:    item.PriceCents,
			DiscountCents: item.DiscountCents,
		})
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		order := &models.Order{
			CustomerID:    input.CustomerID,
			Status:        status,
			PaymentStatus: enums.PaymentStatusUnpaid,
			TotalCents:    total,
			Notes:         input.Notes,
			Items:         items,
		}
		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.applyEffects(ctx, tx, order, nil, status, input.ActorID); err != nil {
			return err
		}
		found, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		created = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, created.ID.String()), "fulfillment.order.created")
	}
	return created, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		old := order.Status
		if old == enums.OrderStatusCanceled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "canceled orders accept no transitions")
		}
		if old == enums.OrderStatusDelivered && input.NewStatus != enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivered orders accept no transitions")
		}

		if err := s.applyEffects(ctx, tx, order, &old, input.NewStatus, input.ActorID); err != nil {
			return err
		}

		updates := map[string]any{"status": input.NewStatus}
		now := time.Now().UTC()
		switch input.NewStatus {
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = &now
		case enums.OrderStatusCanceled:
			updates["canceled_at"] = &now
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order status")
		}
		s.metrics.IncTransition(old.String(), input.NewStatus.String())

		found, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// applyEffects runs the inventory side of one status change. The effect rows
// below are checked in sequence and are not mutually exclusive; a single
// transition may match several. oldStatus == nil means order creation.
func (s *service) applyEffects(ctx context.Context, tx *gorm.DB, order *models.Order, oldStatus *enums.OrderStatus, newStatus enums.OrderStatus, actorID *uuid.UUID) error {
	requirements, err := s.expandOrder(ctx, tx, order)
	if err != nil {
		return err
	}

	if newStatus != enums.OrderStatusCanceled {
		if err := s.assertAvailability(ctx, tx, order.ID, requirements); err != nil {
			return err
		}
	}

	if oldStatus == nil && newStatus != enums.OrderStatusCanceled {
		if err := s.reserve(ctx, tx, order.ID, requirements, actorID); err != nil {
			return err
		}
	}

	if newStatus == enums.OrderStatusCanceled && (oldStatus == nil || *oldStatus != enums.OrderStatusCanceled) {
		if err := s.reservations.ReleaseTx(ctx, tx, order.ID, actorID); err != nil {
			return err
		}
	}

	if newStatus == enums.OrderStatusConfirmed && (oldStatus == nil || *oldStatus != enums.OrderStatusConfirmed) {
		if err := s.reserve(ctx, tx, order.ID, requirements, actorID); err != nil {
			return err
		}
	}

	if newStatus.IsConsumable() && (oldStatus == nil || !oldStatus.IsConsumable()) {
		for _, requirement := range requirements {
			err := s.inventory.WriteOffTx(ctx, tx, inventory.WriteOffInput{
				ProductID: requirement.ProductID,
				Qty:       requirement.Qty,
				OrderID:   &order.ID,
				Reason:    "order",
				ActorID:   actorID,
			})
			if err != nil {
				return err
			}
		}
		// Consumption supersedes the soft hold; drop it without release
		// entries so the ledger shows a plain reserve->out history.
		if err := s.reservations.DropTx(ctx, tx, order.ID); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) expandOrder(ctx context.Context, tx *gorm.DB, order *models.Order) ([]Requirement, error) {
	products, err := s.catalog.WithTx(tx).FindProducts(ctx, productIDs(order.Items))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order products")
	}
	return expandRequirements(order.Items, products)
}

// assertAvailability checks every expanded requirement against availability
// and reports all failing products at once, not just the first.
func (s *service) assertAvailability(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, requirements []Requirement) error {
	var shortages []pkgerrors.StockShortage
	for _, requirement := range requirements {
		available, err := s.reservations.AvailableQtyTx(ctx, tx, requirement.ProductID, &orderID)
		if err != nil {
			return err
		}
		if available < requirement.Qty {
			shortages = append(shortages, pkgerrors.StockShortage{
				ProductID: requirement.ProductID.String(),
				Required:  requirement.Qty,
				Available: available,
			})
		}
	}
	if len(shortages) == 0 {
		return nil
	}
	s.fillProductNames(ctx, tx, shortages)
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(shortages)
}

func (s *service) fillProductNames(ctx context.Context, tx *gorm.DB, shortages []pkgerrors.StockShortage) {
	ids := make([]uuid.UUID, 0, len(shortages))
	for _, shortage := range shortages {
		if id, err := uuid.Parse(shortage.ProductID); err == nil {
			ids = append(ids, id)
		}
	}
	products, err := s.catalog.WithTx(tx).FindProducts(ctx, ids)
	if err != nil {
		return
	}
	for i := range shortages {
		if id, perr := uuid.Parse(shortages[i].ProductID); perr == nil {
			if product, ok := products[id]; ok {
				shortages[i].ProductName = product.Name
			}
		}
	}
}

func (s *service) reserve(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, requirements []Requirement, actorID *uuid.UUID) error {
	lines := make([]reservations.Line, 0, len(requirements))
	for _, requirement := range requirements {
		lines = append(lines, reservations.Line{ProductID: requirement.ProductID, Qty: requirement.Qty})
	}
	return s.reservations.ReserveTx(ctx, tx, orderID, lines, actorID)
}
