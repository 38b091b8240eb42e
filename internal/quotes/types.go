package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantOption is one selectable product option captured in a snapshot.
type VariantOption struct {
	GroupName string           `json:"group_name"`
	Name      string           `json:"name"`
	Surcharge *decimal.Decimal `json:"surcharge,omitempty"`
}

// DiscountRule is the volume discount captured from the product at add time.
type DiscountRule struct {
	MinQty  int             `json:"min_qty"`
	Percent decimal.Decimal `json:"percent"`
}

// ProductSnapshot freezes the catalog data a quote line depends on. The
// snapshot is taken when the line is added so later catalog edits do not
// silently reprice an open quote.
type ProductSnapshot struct {
	ProductID    uuid.UUID       `json:"product_id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	ImageURL     *string         `json:"image_url,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Currency     string          `json:"currency"`
	MOQ          int             `json:"moq"`
	Stock        int             `json:"stock"`
	Tags         []string        `json:"tags,omitempty"`
	Discount     *DiscountRule   `json:"discount,omitempty"`
	Variants     []VariantOption `json:"variants,omitempty"`
}

// QuoteItem is one line in a buyer's quote.
type QuoteItem struct {
	Snapshot          ProductSnapshot   `json:"snapshot"`
	Quantity          int               `json:"quantity"`
	VariantSelections map[string]string `json:"variant_selections,omitempty"`
	AddedAt           time.Time         `json:"added_at"`
}

// storedQuote is the blob shape persisted to the KV store.
type storedQuote struct {
	Items []QuoteItem `json:"items"`
}
