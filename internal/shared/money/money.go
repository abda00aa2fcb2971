// Package money centralizes monetary rounding so every computation
// boundary agrees on 2-decimal precision.
package money

import "github.com/shopspring/decimal"

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// Round2 rounds half-up to 2 decimal places, the precision of every
// stored monetary field.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat builds a 2-decimal amount from a float input boundary.
func FromFloat(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}

// Percent applies a percentage rate (e.g. 15 for 15%) to an amount.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(rate).Div(Hundred))
}

// IsPositive reports whether the amount is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// IsNegative reports whether the amount is strictly less than zero.
func IsNegative(d decimal.Decimal) bool {
	return d.LessThan(decimal.Zero)
}
