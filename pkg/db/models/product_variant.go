package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is one selectable option inside a variant group, optionally
// carrying a unit price surcharge.
type ProductVariant struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index:product_variants_product_id_idx"`
	GroupName string           `gorm:"column:group_name;not null"`
	Name      string           `gorm:"column:name;not null"`
	Surcharge *decimal.Decimal `gorm:"column:surcharge;type:numeric(12,4)"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
