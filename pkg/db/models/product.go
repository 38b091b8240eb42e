package models

import (
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents the canonical supplier listing.
type Product struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID      uuid.UUID             `gorm:"column:supplier_id;type:uuid;not null;index:products_supplier_id_idx"`
	Name            string                `gorm:"column:name;not null"`
	Description     *string               `gorm:"column:description"`
	Category        enums.ProductCategory `gorm:"column:category;type:text;not null"`
	ImageURL        *string               `gorm:"column:image_url"`
	UnitPrice       decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,4);not null"`
	Currency        string                `gorm:"column:currency;type:text;not null;default:'EUR'"`
	MOQ             int                   `gorm:"column:moq;not null;default:1"`
	Stock           int                   `gorm:"column:stock;not null;default:0"`
	Tags            pq.StringArray        `gorm:"column:tags;type:text[]"`
	DiscountMinQty  *int                  `gorm:"column:discount_min_qty"`
	DiscountPercent *decimal.Decimal      `gorm:"column:discount_percent;type:numeric(5,2)"`
	IsActive        bool                  `gorm:"column:is_active;not null;default:true"`
	Supplier        *Supplier             `gorm:"foreignKey:SupplierID"`
	Variants        []ProductVariant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
