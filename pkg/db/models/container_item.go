package models

import (
	"time"

	"github.com/google/uuid"
)

// ContainerItem is the append-only reservation ledger. Quantity records the
// admitted (possibly clamped) CBM, never the raw request.
type ContainerItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContainerID uuid.UUID `gorm:"column:container_id;type:uuid;not null;index:container_items_container_id_idx"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:container_items_user_id_idx"`
	Quantity    float64   `gorm:"column:quantity;type:numeric(10,2);not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
