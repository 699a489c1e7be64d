// Package rates converts user-facing interest rates into the periodic
// fractions consumed by the amortization and investment routines.
package rates

import (
	"fmt"
	"strings"

	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Basis describes how a configured rate relates to the monthly period.
type Basis string

const (
	// Monthly rates are already periodic.
	Monthly Basis = "monthly"
	// EffectiveAnnual rates compound to the annual figure: (1+a)^(1/12)-1.
	EffectiveAnnual Basis = "effectiveAnnual"
	// NominalAnnual rates are split evenly across months: a/12.
	NominalAnnual Basis = "nominalAnnual"
)

// ParseBasis normalizes a configured basis; empty means EffectiveAnnual.
func ParseBasis(value string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "effectiveannual", "effective", "annual":
		return EffectiveAnnual, nil
	case "nominalannual", "nominal", "apr":
		return NominalAnnual, nil
	case "monthly", "periodic":
		return Monthly, nil
	default:
		return "", fmt.Errorf("unsupported rate basis %q", value)
	}
}

var (
	one          = decimal.NewFromInt(1)
	twelfthPower = one.DivRound(decimal.NewFromInt(constants.MonthsPerYear), constants.PowerScale)
)

// MonthlyFromEffectiveAnnual converts an effective annual fraction into the
// equivalent monthly fraction, (1+annual)^(1/12) - 1.
func MonthlyFromEffectiveAnnual(annual decimal.Decimal) (decimal.Decimal, error) {
	if annual.IsZero() {
		return decimal.Zero, nil
	}
	growth, err := one.Add(annual).PowWithPrecision(twelfthPower, constants.PowerScale)
	if err != nil {
		return decimal.Zero, fmt.Errorf("effective annual rate %s: %w", annual, err)
	}
	return mathutil.Working(growth.Sub(one)), nil
}

// MonthlyFromNominalAnnual divides a nominal annual fraction by twelve.
func MonthlyFromNominalAnnual(annual decimal.Decimal) decimal.Decimal {
	return annual.DivRound(decimal.NewFromInt(constants.MonthsPerYear), constants.WorkingScale)
}

// PeriodicFromPercent converts a configured percentage on the given basis
// into a monthly fraction.
func PeriodicFromPercent(percent decimal.Decimal, basis Basis) (decimal.Decimal, error) {
	fraction := mathutil.PercentToFraction(percent)
	switch basis {
	case Monthly:
		return fraction, nil
	case EffectiveAnnual, "":
		return MonthlyFromEffectiveAnnual(fraction)
	case NominalAnnual:
		return MonthlyFromNominalAnnual(fraction), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported rate basis %q", basis)
	}
}
