// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/project-viability/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(val float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// DiscountFactor returns (1+rate)^period, the divisor applied to a flow
// received at the given 1-based period.
func DiscountFactor(rate float64, period int) float64 {
	return math.Pow(1+rate, float64(period))
}

// PercentToDecimal converts a percentage (e.g. 4) to a decimal fraction (0.04).
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
