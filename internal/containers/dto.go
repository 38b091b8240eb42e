package containers

import (
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
)

// ContainerDTO is the API shape of a shipment container.
type ContainerDTO struct {
	ID                     uuid.UUID             `json:"id"`
	Name                   string                `json:"name"`
	DepartureLocation      string                `json:"departureLocation"`
	ArrivalLocation        string                `json:"arrivalLocation"`
	EstimatedDepartureDate time.Time             `json:"estimatedDepartureDate"`
	TotalCapacity          float64               `json:"totalCapacity"`
	UsedCapacity           float64               `json:"usedCapacity"`
	RemainingCapacity      float64               `json:"remainingCapacity"`
	Status                 enums.ContainerStatus `json:"status"`
	CreatedAt              time.Time             `json:"createdAt"`
}

// ContainerItemDTO is one ledger entry.
type ContainerItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ContainerID uuid.UUID `json:"containerId"`
	ProductID   uuid.UUID `json:"productId"`
	UserID      uuid.UUID `json:"userId"`
	Quantity    float64   `json:"quantity"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AdmissionResultDTO reports what an admission request actually reserved.
type AdmissionResultDTO struct {
	ContainerID       uuid.UUID             `json:"containerId"`
	RequestedQuantity float64               `json:"requestedQuantity"`
	AdmittedQuantity  float64               `json:"admittedQuantity"`
	PartiallyAdmitted bool                  `json:"partiallyAdmitted"`
	UsedCapacity      float64               `json:"usedCapacity"`
	Status            enums.ContainerStatus `json:"status"`
}

// NewContainerDTO maps the model into the API shape.
func NewContainerDTO(container *models.Container) *ContainerDTO {
	remaining := container.TotalCapacity - container.UsedCapacity
	if remaining < 0 {
		remaining = 0
	}
	return &ContainerDTO{
		ID:                     container.ID,
		Name:                   container.Name,
		DepartureLocation:      container.DepartureLocation,
		ArrivalLocation:        container.ArrivalLocation,
		EstimatedDepartureDate: container.EstimatedDepartureDate,
		TotalCapacity:          container.TotalCapacity,
		UsedCapacity:           container.UsedCapacity,
		RemainingCapacity:      remaining,
		Status:                 container.Status,
		CreatedAt:              container.CreatedAt,
	}
}

// NewContainerItemDTO maps a ledger row into the API shape.
func NewContainerItemDTO(item *models.ContainerItem) *ContainerItemDTO {
	return &ContainerItemDTO{
		ID:          item.ID,
		ContainerID: item.ContainerID,
		ProductID:   item.ProductID,
		UserID:      item.UserID,
		Quantity:    item.Quantity,
		CreatedAt:   item.CreatedAt,
	}
}
