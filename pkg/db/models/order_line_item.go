package models

import (
	"time"

	dbtypes "github.com/agencecomx/sourcing-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem freezes one quote line at placement time. Product fields are
// copied rather than joined so later catalog edits cannot rewrite history.
type OrderLineItem struct {
	ID                uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID                 `gorm:"column:order_id;type:uuid;not null;index:order_line_items_order_id_idx"`
	ProductID         uuid.UUID                 `gorm:"column:product_id;type:uuid;not null"`
	SupplierID        uuid.UUID                 `gorm:"column:supplier_id;type:uuid;not null"`
	ProductName       string                    `gorm:"column:product_name;not null"`
	Quantity          int                       `gorm:"column:quantity;not null"`
	UnitPrice         decimal.Decimal           `gorm:"column:unit_price;type:numeric(12,4);not null"`
	TotalPrice        decimal.Decimal           `gorm:"column:total_price;type:numeric(14,4);not null"`
	VariantSelections dbtypes.VariantSelections `gorm:"column:variant_selections;type:jsonb"`
	CreatedAt         time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
