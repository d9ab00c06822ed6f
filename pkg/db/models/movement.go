package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloomworks/bloomstock-backend/pkg/enums"
)

// Movement is one append-only ledger entry. Rows are created by every
// operation that changes or annotates stock and are never updated or deleted.
// BatchID is null for overdraft, reservation and release entries.
type Movement struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index"`
	BatchID   *uuid.UUID         `gorm:"column:batch_id;type:uuid"`
	Kind      enums.MovementKind `gorm:"column:kind;type:text;not null"`
	Qty       int                `gorm:"column:qty;not null"`
	Reason    string             `gorm:"column:reason;not null;default:''"`
	OrderID   *uuid.UUID         `gorm:"column:order_id;type:uuid;index"`
	ActorID   *uuid.UUID         `gorm:"column:actor_id;type:uuid"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
