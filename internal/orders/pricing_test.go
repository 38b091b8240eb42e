package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencecomx/sourcing-backend/internal/quotes"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

func quoteLine(price string, qty, moq int) quotes.QuoteItem {
	return quotes.QuoteItem{
		Snapshot: quotes.ProductSnapshot{
			ProductID:  uuid.New(),
			SupplierID: uuid.New(),
			Name:       "Aluminium Frame",
			Category:   "machinery",
			UnitPrice:  decimal.RequireFromString(price),
			Currency:   "EUR",
			MOQ:        moq,
			Stock:      10000,
		},
		Quantity: qty,
	}
}

func TestPriceQuoteRecomputesTotalsFromSnapshots(t *testing.T) {
	discounted := quoteLine("10", 150, 1)
	discounted.Snapshot.Discount = &quotes.DiscountRule{
		MinQty:  100,
		Percent: decimal.RequireFromString("15"),
	}
	plain := quoteLine("2.50", 4, 1)

	priced, err := priceQuote([]quotes.QuoteItem{discounted, plain}, "EUR")
	if err != nil {
		t.Fatalf("price quote: %v", err)
	}

	// 10 x 150 = 1500 gross, 1275 after 15%; 2.50 x 4 = 10 undiscounted.
	if !priced.Subtotal.Equal(decimal.RequireFromString("1510")) {
		t.Fatalf("expected subtotal 1510, got %s", priced.Subtotal)
	}
	if !priced.DiscountTotal.Equal(decimal.RequireFromString("225")) {
		t.Fatalf("expected discount 225, got %s", priced.DiscountTotal)
	}
	if !priced.Total.Equal(decimal.RequireFromString("1285")) {
		t.Fatalf("expected total 1285, got %s", priced.Total)
	}
	if len(priced.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(priced.Lines))
	}
	if !priced.Lines[0].TotalPrice.Equal(decimal.RequireFromString("1275")) {
		t.Fatalf("expected discounted line total 1275, got %s", priced.Lines[0].TotalPrice)
	}
}

func TestPriceQuoteConvertsCurrency(t *testing.T) {
	usd := quoteLine("10.90", 2, 1)
	usd.Snapshot.Currency = "USD"

	priced, err := priceQuote([]quotes.QuoteItem{usd}, "EUR")
	if err != nil {
		t.Fatalf("price quote: %v", err)
	}

	// 21.80 USD at 1.09 per EUR.
	expected := decimal.RequireFromString("20")
	if priced.Total.Sub(expected).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Fatalf("expected roughly 20 EUR, got %s", priced.Total)
	}
}

func TestPriceQuoteRejectsUnknownCurrency(t *testing.T) {
	line := quoteLine("10", 1, 1)
	line.Snapshot.Currency = "XXX"

	_, err := priceQuote([]quotes.QuoteItem{line}, "EUR")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateQuoteLines(t *testing.T) {
	err := validateQuoteLines(nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty quote, got %v", err)
	}

	below := quoteLine("10", 5, 50)
	err = validateQuoteLines([]quotes.QuoteItem{below})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected MOQ violation, got %v", err)
	}

	if err := validateQuoteLines([]quotes.QuoteItem{quoteLine("10", 50, 50)}); err != nil {
		t.Fatalf("quantity at MOQ must pass, got %v", err)
	}
}

func TestValidateContainerRequest(t *testing.T) {
	line := quoteLine("10", 10, 1)
	items := []quotes.QuoteItem{line}

	if err := validateContainerRequest(nil, items); err != nil {
		t.Fatalf("nil request must pass, got %v", err)
	}

	valid := &ContainerRequest{
		ContainerID: uuid.New(),
		ProductID:   line.Snapshot.ProductID,
		CapacityCBM: 2.5,
	}
	if err := validateContainerRequest(valid, items); err != nil {
		t.Fatalf("valid request must pass, got %v", err)
	}

	cases := map[string]*ContainerRequest{
		"missing container id": {ProductID: line.Snapshot.ProductID, CapacityCBM: 1},
		"non-positive cbm":     {ContainerID: uuid.New(), ProductID: line.Snapshot.ProductID},
		"product not in quote": {ContainerID: uuid.New(), ProductID: uuid.New(), CapacityCBM: 1},
	}
	for name, request := range cases {
		err := validateContainerRequest(request, items)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}
