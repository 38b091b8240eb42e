package models

import (
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
)

// Container is a shared shipment container buyers reserve capacity in.
// Capacity is measured in CBM. UsedCapacity never exceeds TotalCapacity and
// the closed status is terminal.
type Container struct {
	ID                     uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                   string                `gorm:"column:name;not null"`
	DepartureLocation      string                `gorm:"column:departure_location;not null"`
	ArrivalLocation        string                `gorm:"column:arrival_location;not null"`
	EstimatedDepartureDate time.Time             `gorm:"column:estimated_departure_date;not null"`
	TotalCapacity          float64               `gorm:"column:total_capacity;type:numeric(10,2);not null"`
	UsedCapacity           float64               `gorm:"column:used_capacity;type:numeric(10,2);not null;default:0"`
	Status                 enums.ContainerStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt              time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
