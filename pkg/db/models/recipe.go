package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is the bill of materials for a bouquet product.
type Recipe struct {
	ID        uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID    `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	Items     []RecipeItem `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// RecipeItem is one component line: qty of the component product needed per
// single unit of the bouquet.
type RecipeItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RecipeID    uuid.UUID `gorm:"column:recipe_id;type:uuid;not null;index"`
	ComponentID uuid.UUID `gorm:"column:component_id;type:uuid;not null"`
	QtyPerUnit  int       `gorm:"column:qty_per_unit;not null"`
}
