package quotes

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// EffectiveUnitPrice is the snapshot base price plus the surcharges of the
// selected variant options.
func EffectiveUnitPrice(item QuoteItem) decimal.Decimal {
	unit := item.Snapshot.UnitPrice
	if len(item.VariantSelections) == 0 {
		return unit
	}
	for _, option := range item.Snapshot.Variants {
		selected, ok := item.VariantSelections[option.GroupName]
		if !ok || selected != option.Name {
			continue
		}
		if option.Surcharge != nil {
			unit = unit.Add(*option.Surcharge)
		}
	}
	return unit
}

// LineTotal prices one quote line at full precision. The volume discount
// applies only once the quantity reaches the rule's minimum.
func LineTotal(item QuoteItem) decimal.Decimal {
	if item.Quantity <= 0 {
		return decimal.Zero
	}
	total := EffectiveUnitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
	rule := item.Snapshot.Discount
	if rule == nil || item.Quantity < rule.MinQty {
		return total
	}
	multiplier := oneHundred.Sub(rule.Percent).Div(oneHundred)
	return total.Mul(multiplier)
}
