package quotes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func snapshotWithDiscount(base string, minQty int, percent string) ProductSnapshot {
	return ProductSnapshot{
		ProductID:  uuid.New(),
		SupplierID: uuid.New(),
		Name:       "Steel Bracket",
		Category:   "machinery",
		UnitPrice:  decimal.RequireFromString(base),
		Currency:   "EUR",
		MOQ:        1,
		Stock:      10000,
		Discount: &DiscountRule{
			MinQty:  minQty,
			Percent: decimal.RequireFromString(percent),
		},
	}
}

func TestLineTotalBelowDiscountThreshold(t *testing.T) {
	item := QuoteItem{
		Snapshot: snapshotWithDiscount("10", 100, "15"),
		Quantity: 50,
	}
	if got := LineTotal(item); !got.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("expected 500, got %s", got)
	}
}

func TestLineTotalAtAndAboveDiscountThreshold(t *testing.T) {
	item := QuoteItem{
		Snapshot: snapshotWithDiscount("10", 100, "15"),
		Quantity: 150,
	}
	if got := LineTotal(item); !got.Equal(decimal.RequireFromString("1275")) {
		t.Fatalf("expected 1275, got %s", got)
	}

	item.Quantity = 100
	if got := LineTotal(item); !got.Equal(decimal.RequireFromString("850")) {
		t.Fatalf("expected discount exactly at threshold, got %s", got)
	}
}

func TestLineTotalWithoutDiscount(t *testing.T) {
	snapshot := snapshotWithDiscount("2.50", 0, "0")
	snapshot.Discount = nil
	item := QuoteItem{Snapshot: snapshot, Quantity: 4}
	if got := LineTotal(item); !got.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected 10, got %s", got)
	}
}

func TestEffectiveUnitPriceAddsSelectedSurcharges(t *testing.T) {
	surcharge := decimal.RequireFromString("0.75")
	snapshot := snapshotWithDiscount("10", 100, "15")
	snapshot.Variants = []VariantOption{
		{GroupName: "Color", Name: "Red"},
		{GroupName: "Color", Name: "Gold", Surcharge: &surcharge},
		{GroupName: "Size", Name: "L", Surcharge: &surcharge},
	}

	item := QuoteItem{
		Snapshot:          snapshot,
		Quantity:          1,
		VariantSelections: map[string]string{"Color": "Gold"},
	}
	if got := EffectiveUnitPrice(item); !got.Equal(decimal.RequireFromString("10.75")) {
		t.Fatalf("expected 10.75, got %s", got)
	}

	// Unselected groups and zero-surcharge options contribute nothing.
	item.VariantSelections = map[string]string{"Color": "Red"}
	if got := EffectiveUnitPrice(item); !got.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected 10, got %s", got)
	}
}

func TestLineTotalZeroQuantity(t *testing.T) {
	item := QuoteItem{Snapshot: snapshotWithDiscount("10", 100, "15"), Quantity: 0}
	if got := LineTotal(item); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}
