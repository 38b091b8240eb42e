package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvertIdentity(t *testing.T) {
	amount := decimal.RequireFromString("123.4567")
	got, err := Convert(amount, "EUR", "EUR")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !got.Equal(amount) {
		t.Fatalf("identity conversion changed amount: %s", got)
	}
}

func TestConvertRoundTripWithinCent(t *testing.T) {
	tolerance := decimal.RequireFromString("0.01")
	amounts := []string{"10", "99.99", "1234.56", "0.07"}
	codes := []string{"USD", "CNY", "GBP", "AED", "MAD"}

	for _, raw := range amounts {
		amount := decimal.RequireFromString(raw)
		for _, code := range codes {
			there, err := Convert(amount, "EUR", code)
			if err != nil {
				t.Fatalf("convert EUR->%s: %v", code, err)
			}
			back, err := Convert(there, code, "EUR")
			if err != nil {
				t.Fatalf("convert %s->EUR: %v", code, err)
			}
			if back.Sub(amount).Abs().GreaterThan(tolerance) {
				t.Fatalf("round trip %s via %s drifted: %s -> %s", raw, code, amount, back)
			}
		}
	}
}

func TestConvertUnsupported(t *testing.T) {
	if _, err := Convert(decimal.NewFromInt(1), "EUR", "XYZ"); err == nil {
		t.Fatal("expected unsupported currency error")
	}
	if _, err := Convert(decimal.NewFromInt(1), "XYZ", "EUR"); err == nil {
		t.Fatal("expected unsupported currency error")
	}
}

func TestDisplayBankersRounding(t *testing.T) {
	cases := map[string]string{
		"2.345":  "2.34",
		"2.355":  "2.36",
		"2.3449": "2.34",
		"10":     "10",
	}
	for in, want := range cases {
		got := Display(decimal.RequireFromString(in))
		if got.String() != want {
			t.Fatalf("Display(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	out, err := Format(decimal.RequireFromString("1234.555"), "eur")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != "€1234.56" {
		t.Fatalf("unexpected formatted value %q", out)
	}

	out, err = Format(decimal.NewFromInt(50), "MAD")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != "MAD 50.00" {
		t.Fatalf("unexpected formatted value %q", out)
	}

	if _, err := Format(decimal.NewFromInt(1), "XYZ"); err == nil {
		t.Fatal("expected unsupported currency error")
	}
}

func TestSupported(t *testing.T) {
	if !Supported("usd") {
		t.Fatal("usd should be supported")
	}
	if Supported("BTC") {
		t.Fatal("BTC should not be supported")
	}
	if len(Codes()) != 6 {
		t.Fatalf("expected 6 supported codes, got %d", len(Codes()))
	}
}
