// Package decimal provides the fixed-point arithmetic helpers used across
// the extraction pipeline, built on shopspring/decimal, plus the Swedish
// amount-normalisation routine shared by every layer that reads a number
// off a page (see swedish.go).
package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero.
var Zero = decimal.Zero

// FromInt creates a decimal from an int64.
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromFloat creates a decimal from a float64, rounded to 2 places (SEK has
// öre, i.e. 2 fractional digits).
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromString parses a decimal from a plain (dot-decimal) string.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from a string, panicking on error. Only
// safe for compile-time-known literals.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Mul multiplies two decimals, rounding to 2 places.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(2)
}

// Div divides a by b, rounding to 2 places. Returns Zero for division by
// zero rather than panicking: callers treat a missing denominator as "no
// opinion", not as a fatal error.
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.Div(b).Round(2)
}

// CalculateVAT computes amount * (ratePercent/100), rounded to 2 places.
func CalculateVAT(amount decimal.Decimal, ratePercent int) decimal.Decimal {
	if ratePercent == 0 {
		return Zero
	}
	rate := decimal.NewFromInt(int64(ratePercent))
	hundred := decimal.NewFromInt(100)
	return amount.Mul(rate).Div(hundred).Round(2)
}

// CalculateLineTotal computes amount - discount + vat, rounded to 2
// places.
func CalculateLineTotal(amount, discount, vat decimal.Decimal) decimal.Decimal {
	return amount.Sub(discount).Add(vat).Round(2)
}

// CalculatePercentage computes amount * (percentage/100), rounded to 2
// places.
func CalculatePercentage(amount decimal.Decimal, percentage decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return amount.Mul(percentage).Div(hundred).Round(2)
}

// Sum adds a slice of decimals, starting from Zero.
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive reports whether d > 0.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative reports whether d >= 0.
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// RoundSEK rounds to 2 decimal places (öre).
func RoundSEK(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// AbsDiff returns |a - b|.
func AbsDiff(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}
