package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch is a discrete received quantity of one product. QtyIn is immutable as
// received; QtyLeft is drained by FIFO consumption and never goes below zero.
type Batch struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	SupplierID *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	QtyIn      int             `gorm:"column:qty_in;not null"`
	QtyLeft    int             `gorm:"column:qty_left;not null"`
	BuyPrice   decimal.Decimal `gorm:"column:buy_price;type:numeric(12,2);not null;default:0"`
	ArrivedAt  time.Time       `gorm:"column:arrived_at;not null;index"`
	ExpiresAt  *time.Time      `gorm:"column:expires_at"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
