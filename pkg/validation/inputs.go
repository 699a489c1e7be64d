// Package validation provides caller-side validation of user inputs before
// they reach the amortization and investment routines.
package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/buy-vs-invest/pkg/amortization"
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/iwvelando/buy-vs-invest/pkg/investment"
	"github.com/shopspring/decimal"
)

// ErrHorizonMismatch is returned when the two paths cover different periods.
var ErrHorizonMismatch = errors.New("loan and investment horizons differ")

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateRate rejects negative rates, which the calculator would otherwise
// accept mechanically.
func ValidateRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%s: %w: got %s", name, amortization.ErrInvalidRate, rate)
	}
	return nil
}

// ValidateTerm requires at least one period.
func ValidateTerm(name string, term int) error {
	if term <= 0 {
		return fmt.Errorf("%s: %w: got %d", name, amortization.ErrInvalidTerm, term)
	}
	return nil
}

// ValidatePurchase requires a positive asset value and a down payment that
// leaves something to finance.
func ValidatePurchase(assetValue, downPayment decimal.Decimal) error {
	if !assetValue.IsPositive() {
		return fmt.Errorf("asset value %s: %w", assetValue, amortization.ErrInvalidPrincipal)
	}
	if downPayment.IsNegative() {
		return fmt.Errorf("down payment %s must not be negative", downPayment)
	}
	if downPayment.GreaterThanOrEqual(assetValue) {
		return fmt.Errorf("down payment %s must be less than asset value %s: %w",
			downPayment, assetValue, amortization.ErrInvalidPrincipal)
	}
	return nil
}

// ValidateContribution rejects negative periodic contributions.
func ValidateContribution(contribution decimal.Decimal) error {
	if contribution.IsNegative() {
		return fmt.Errorf("periodic contribution %s must not be negative", contribution)
	}
	return nil
}

// ValidateHorizon checks the comparison precondition that both paths span
// the same number of periods.
func ValidateHorizon(schedule *amortization.Schedule, series *investment.Series) error {
	if schedule.TermPeriods != series.Periods() {
		return fmt.Errorf("%w: %d loan periods, %d investment periods",
			ErrHorizonMismatch, schedule.TermPeriods, series.Periods())
	}
	return nil
}
