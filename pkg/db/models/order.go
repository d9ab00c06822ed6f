package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloomworks/bloomstock-backend/pkg/enums"
)

// Order is the sales aggregate the fulfillment state machine drives.
// PaidTotalCents is recomputed from payments on every reconciliation, never
// incremented in place.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID     *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	Status         enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'draft'"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	TotalCents     int                 `gorm:"column:total_cents;not null;default:0"`
	PaidTotalCents int                 `gorm:"column:paid_total_cents;not null;default:0"`
	Notes          *string             `gorm:"column:notes"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveredAt    *time.Time          `gorm:"column:delivered_at"`
	CanceledAt     *time.Time          `gorm:"column:canceled_at"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the snapshot of one product line within an order.
type OrderItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Qty           int       `gorm:"column:qty;not null"`
	PriceCents    int       `gorm:"column:price_cents;not null"`
	DiscountCents int       `gorm:"column:discount_cents;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
