package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned app-side so inserts behave the same on postgres and on the
// sqlite databases the tests run against.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Product) BeforeCreate(_ *gorm.DB) error              { ensureID(&p.ID); return nil }
func (s *Supplier) BeforeCreate(_ *gorm.DB) error             { ensureID(&s.ID); return nil }
func (r *Recipe) BeforeCreate(_ *gorm.DB) error               { ensureID(&r.ID); return nil }
func (r *RecipeItem) BeforeCreate(_ *gorm.DB) error           { ensureID(&r.ID); return nil }
func (b *Batch) BeforeCreate(_ *gorm.DB) error                { ensureID(&b.ID); return nil }
func (m *Movement) BeforeCreate(_ *gorm.DB) error             { ensureID(&m.ID); return nil }
func (r *Reservation) BeforeCreate(_ *gorm.DB) error          { ensureID(&r.ID); return nil }
func (o *Order) BeforeCreate(_ *gorm.DB) error                { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(_ *gorm.DB) error            { ensureID(&i.ID); return nil }
func (p *Payment) BeforeCreate(_ *gorm.DB) error              { ensureID(&p.ID); return nil }
func (h *PaymentStatusHistory) BeforeCreate(_ *gorm.DB) error { ensureID(&h.ID); return nil }
