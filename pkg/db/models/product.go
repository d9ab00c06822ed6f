package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloomworks/bloomstock-backend/pkg/enums"
)

// Product is a catalog entry: a sellable stem, a raw material, or a compound
// bouquet assembled from components via its Recipe.
type Product struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name      string            `gorm:"column:name;not null"`
	Kind      enums.ProductKind `gorm:"column:kind;type:text;not null;default:'simple'"`
	Unit      enums.ProductUnit `gorm:"column:unit;type:text;not null;default:'piece'"`
	Active    bool              `gorm:"column:active;not null;default:true"`
	Recipe    *Recipe           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
