package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloomworks/bloomstock-backend/pkg/enums"
)

// Payment is immutable once created; there is no edit or void path.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Method      enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	AmountCents int                 `gorm:"column:amount_cents;not null"`
	ActorID     *uuid.UUID          `gorm:"column:actor_id;type:uuid"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// PaymentStatusHistory is the append-only audit of payment status changes.
// A row is written only when the derived status actually changed.
type PaymentStatusHistory struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	OldStatus enums.PaymentStatus `gorm:"column:old_status;type:text;not null"`
	NewStatus enums.PaymentStatus `gorm:"column:new_status;type:text;not null"`
	ActorID   *uuid.UUID          `gorm:"column:actor_id;type:uuid"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
