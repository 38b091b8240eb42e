package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencecomx/sourcing-backend/internal/containers"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
)

// OrderDTO is the API shape of a placed order.
type OrderDTO struct {
	ID            uuid.UUID                      `json:"id"`
	BuyerID       uuid.UUID                      `json:"buyerId"`
	Status        enums.OrderStatus              `json:"status"`
	Currency      string                         `json:"currency"`
	Subtotal      decimal.Decimal                `json:"subtotal"`
	DiscountTotal decimal.Decimal                `json:"discountTotal"`
	Total         decimal.Decimal                `json:"total"`
	ContainerID   *uuid.UUID                     `json:"containerId,omitempty"`
	Lines         []OrderLineDTO                 `json:"lines"`
	Admission     *containers.AdmissionResultDTO `json:"admission,omitempty"`
	CreatedAt     time.Time                      `json:"createdAt"`
}

// OrderLineDTO is one frozen quote line on an order.
type OrderLineDTO struct {
	ID                uuid.UUID         `json:"id"`
	ProductID         uuid.UUID         `json:"productId"`
	SupplierID        uuid.UUID         `json:"supplierId"`
	ProductName       string            `json:"productName"`
	Quantity          int               `json:"quantity"`
	UnitPrice         decimal.Decimal   `json:"unitPrice"`
	TotalPrice        decimal.Decimal   `json:"totalPrice"`
	VariantSelections map[string]string `json:"variantSelections,omitempty"`
}

// NewOrderDTO maps the model into the API shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	lines := make([]OrderLineDTO, len(order.LineItems))
	for i, line := range order.LineItems {
		lines[i] = OrderLineDTO{
			ID:                line.ID,
			ProductID:         line.ProductID,
			SupplierID:        line.SupplierID,
			ProductName:       line.ProductName,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
			TotalPrice:        line.TotalPrice,
			VariantSelections: line.VariantSelections,
		}
	}
	return &OrderDTO{
		ID:            order.ID,
		BuyerID:       order.BuyerID,
		Status:        order.Status,
		Currency:      order.Currency,
		Subtotal:      order.Subtotal,
		DiscountTotal: order.DiscountTotal,
		Total:         order.Total,
		ContainerID:   order.ContainerID,
		Lines:         lines,
		CreatedAt:     order.CreatedAt,
	}
}
