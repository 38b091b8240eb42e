package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the vendor profile a product belongs to.
type Supplier struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:suppliers_user_id_key"`
	Name        string    `gorm:"column:name;not null"`
	Country     string    `gorm:"column:country;not null"`
	City        *string   `gorm:"column:city"`
	Description *string   `gorm:"column:description"`
	Verified    bool      `gorm:"column:verified;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
