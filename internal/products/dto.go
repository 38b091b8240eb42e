package product

import (
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID              uuid.UUID           `json:"id"`
	SupplierID      uuid.UUID           `json:"supplier_id"`
	Name            string              `json:"name"`
	Description     *string             `json:"description,omitempty"`
	Category        string              `json:"category"`
	ImageURL        *string             `json:"image_url,omitempty"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	Currency        string              `json:"currency"`
	MOQ             int                 `json:"moq"`
	Stock           int                 `json:"stock"`
	Tags            []string            `json:"tags"`
	Discount        *DiscountDTO        `json:"discount,omitempty"`
	IsActive        bool                `json:"is_active"`
	Variants        []VariantDTO        `json:"variants,omitempty"`
	Supplier        *SupplierSummaryDTO `json:"supplier,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// DiscountDTO is the single volume discount rule a product may carry.
type DiscountDTO struct {
	MinQty  int             `json:"min_qty"`
	Percent decimal.Decimal `json:"percent"`
}

// VariantDTO is one selectable option inside a variant group.
type VariantDTO struct {
	ID        uuid.UUID        `json:"id"`
	GroupName string           `json:"group_name"`
	Name      string           `json:"name"`
	Surcharge *decimal.Decimal `json:"surcharge,omitempty"`
}

// SupplierSummaryDTO surfaces limited supplier data for product responses.
type SupplierSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Country  string    `json:"country"`
	Verified bool      `json:"verified"`
}

// ProductPagination carries cursor metadata alongside a result page.
type ProductPagination struct {
	Page    int    `json:"page"`
	Total   int    `json:"total"`
	Current string `json:"current"`
	First   string `json:"first"`
	Last    string `json:"last"`
	Prev    string `json:"prev"`
	Next    string `json:"next"`
}

// ProductListResult is one page of catalog products.
type ProductListResult struct {
	Items      []ProductDTO      `json:"items"`
	Pagination ProductPagination `json:"pagination"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		SupplierID:  product.SupplierID,
		Name:        product.Name,
		Description: product.Description,
		Category:    string(product.Category),
		ImageURL:    product.ImageURL,
		UnitPrice:   product.UnitPrice,
		Currency:    product.Currency,
		MOQ:         product.MOQ,
		Stock:       product.Stock,
		Tags:        append([]string{}, product.Tags...),
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	if product.DiscountMinQty != nil && product.DiscountPercent != nil {
		dto.Discount = &DiscountDTO{
			MinQty:  *product.DiscountMinQty,
			Percent: *product.DiscountPercent,
		}
	}

	if len(product.Variants) > 0 {
		dto.Variants = make([]VariantDTO, len(product.Variants))
		for i, v := range product.Variants {
			dto.Variants[i] = VariantDTO{
				ID:        v.ID,
				GroupName: v.GroupName,
				Name:      v.Name,
				Surcharge: v.Surcharge,
			}
		}
	}

	if product.Supplier != nil {
		dto.Supplier = &SupplierSummaryDTO{
			ID:       product.Supplier.ID,
			Name:     product.Supplier.Name,
			Country:  product.Supplier.Country,
			Verified: product.Supplier.Verified,
		}
	}

	return dto
}
