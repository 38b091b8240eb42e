package models

import (
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a buyer's submitted quote, priced server-side at placement time.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID       uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null;index:orders_buyer_id_idx"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Currency      string            `gorm:"column:currency;type:text;not null;default:'EUR'"`
	Subtotal      decimal.Decimal   `gorm:"column:subtotal;type:numeric(14,4);not null"`
	DiscountTotal decimal.Decimal   `gorm:"column:discount_total;type:numeric(14,4);not null"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(14,4);not null"`
	ContainerID   *uuid.UUID        `gorm:"column:container_id;type:uuid"`
	LineItems     []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
