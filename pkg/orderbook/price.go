package orderbook

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a fixed-point price as a decimal string, always
// with two fractional digits: 10050 -> "100.50", -1 -> "-0.01".
func FormatPrice(p Price) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s%d.%02d", sign, p/PriceScale, p%PriceScale)
}

// ParsePrice converts a decimal string to a Price. Values finer than
// one hundredth are errors, not rounded.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return DecimalToPrice(d)
}

// DecimalToPrice converts an exact decimal to a Price, rejecting
// values that do not land on a hundredth.
func DecimalToPrice(d decimal.Decimal) (Price, error) {
	scaled := d.Mul(decimal.New(int64(PriceScale), 0))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("price %s is finer than 0.01", d)
	}
	return Price(scaled.IntPart()), nil
}

// PriceToDecimal converts a Price to its exact decimal value.
func PriceToDecimal(p Price) decimal.Decimal {
	return decimal.New(int64(p), -2)
}
