// Package mathutil provides common decimal utility functions.
package mathutil

import (
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons and for display.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.DisplayScale)
}

// Working rounds a value to the working scale used for intermediate products.
func Working(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.WorkingScale)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tolerance)
}

// Max returns the maximum of two values
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Sum adds all values exactly.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// PowInt raises base to a non-negative integer exponent by repeated squaring,
// rounding every intermediate product to scale fractional digits. Negative
// exponents return one.
func PowInt(base decimal.Decimal, exponent int, scale int32) decimal.Decimal {
	result := one
	factor := base
	for exponent > 0 {
		if exponent&1 == 1 {
			result = result.Mul(factor).Round(scale)
		}
		exponent >>= 1
		if exponent > 0 {
			factor = factor.Mul(factor).Round(scale)
		}
	}
	return result
}

// Ratio returns value / total at the working scale, or zero when total is zero.
func Ratio(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.DivRound(total, constants.WorkingScale)
}

// PercentToFraction converts a percentage such as 10 into the fraction 0.1.
func PercentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(decimal.NewFromInt(constants.PercentageMultiplier))
}
