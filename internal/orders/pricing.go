package orders

import (
	"github.com/shopspring/decimal"

	"github.com/agencecomx/sourcing-backend/internal/quotes"
	"github.com/agencecomx/sourcing-backend/pkg/currency"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

// pricedQuote is a quote repriced server-side in the order currency. Client
// totals are never trusted.
type pricedQuote struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	Lines         []models.OrderLineItem
}

// priceQuote recomputes every line from its product snapshot and converts
// the amounts into the order currency at full precision.
func priceQuote(items []quotes.QuoteItem, currencyCode string) (*pricedQuote, error) {
	priced := &pricedQuote{
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		Total:         decimal.Zero,
		Lines:         make([]models.OrderLineItem, 0, len(items)),
	}

	for _, item := range items {
		unit := quotes.EffectiveUnitPrice(item)
		lineTotal := quotes.LineTotal(item)
		gross := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))

		unitConverted, err := currency.Convert(unit, item.Snapshot.Currency, currencyCode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "converting line price")
		}
		grossConverted, err := currency.Convert(gross, item.Snapshot.Currency, currencyCode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "converting line subtotal")
		}
		totalConverted, err := currency.Convert(lineTotal, item.Snapshot.Currency, currencyCode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "converting line total")
		}

		priced.Subtotal = priced.Subtotal.Add(grossConverted)
		priced.DiscountTotal = priced.DiscountTotal.Add(grossConverted.Sub(totalConverted))
		priced.Total = priced.Total.Add(totalConverted)

		priced.Lines = append(priced.Lines, models.OrderLineItem{
			ProductID:         item.Snapshot.ProductID,
			SupplierID:        item.Snapshot.SupplierID,
			ProductName:       item.Snapshot.Name,
			Quantity:          item.Quantity,
			UnitPrice:         unitConverted,
			TotalPrice:        totalConverted,
			VariantSelections: item.VariantSelections,
		})
	}

	return priced, nil
}

// validateQuoteLines enforces each product's minimum order quantity at
// placement time, since MOQs may have changed after lines were added.
func validateQuoteLines(items []quotes.QuoteItem) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote is empty")
	}
	for _, item := range items {
		if item.Quantity < item.Snapshot.MOQ {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity below minimum order quantity").
				WithDetails(map[string]string{
					"productId": item.Snapshot.ProductID.String(),
					"product":   item.Snapshot.Name,
				})
		}
	}
	return nil
}
