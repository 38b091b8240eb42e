// Package currency converts and formats marketplace amounts. Rates are a
// static table expressed against the euro; amounts keep full precision
// internally and are rounded (banker's) only when rendered for display.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrency anchors the rate table. All stored prices are euro amounts.
const BaseCurrency = "EUR"

// rates maps currency code to the amount of that currency one euro buys.
var rates = map[string]decimal.Decimal{
	"EUR": decimal.NewFromInt(1),
	"USD": decimal.RequireFromString("1.09"),
	"CNY": decimal.RequireFromString("7.85"),
	"GBP": decimal.RequireFromString("0.86"),
	"AED": decimal.RequireFromString("4.00"),
	"MAD": decimal.RequireFromString("10.95"),
}

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"CNY": "¥",
	"GBP": "£",
	"AED": "AED ",
	"MAD": "MAD ",
}

// ErrUnsupported is returned when a currency code is not in the rate table.
var ErrUnsupported = fmt.Errorf("unsupported currency")

// Supported returns true when the code has a configured rate.
func Supported(code string) bool {
	_, ok := rates[normalize(code)]
	return ok
}

// Codes lists the supported currency codes.
func Codes() []string {
	out := make([]string, 0, len(rates))
	for code := range rates {
		out = append(out, code)
	}
	return out
}

// Convert re-expresses amount from one currency into another at full
// precision. Rounding is left to the caller, typically via Format.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = normalize(from)
	to = normalize(to)
	fromRate, ok := rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupported, from)
	}
	toRate, ok := rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupported, to)
	}
	if from == to {
		return amount, nil
	}
	// Pass through the euro base so every pair stays consistent.
	base := amount.DivRound(fromRate, 12)
	return base.Mul(toRate), nil
}

// Display rounds the amount to two decimal places using banker's rounding.
func Display(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(2)
}

// Format renders the amount with its currency symbol for display.
func Format(amount decimal.Decimal, code string) (string, error) {
	code = normalize(code)
	symbol, ok := symbols[code]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, code)
	}
	return symbol + Display(amount).StringFixed(2), nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
