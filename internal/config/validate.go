package config

import (
	"errors"
	"fmt"

	"github.com/iwvelando/buy-vs-invest/pkg/amortization"
	"github.com/iwvelando/buy-vs-invest/pkg/rates"
	"github.com/iwvelando/buy-vs-invest/pkg/validation"
	"github.com/shopspring/decimal"
)

// Horizons longer than this many months are unusual enough to warn about.
const longHorizonMonths = 420

// AssetValueDecimal returns the asset value as a decimal.
func (c Common) AssetValueDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.AssetValue)
}

// DownPaymentDecimal returns the down payment as a decimal.
func (c Common) DownPaymentDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DownPayment)
}

// Financed returns the principal left to finance after the down payment.
func (c Common) Financed() decimal.Decimal {
	return c.AssetValueDecimal().Sub(c.DownPaymentDecimal())
}

// Validate returns an error for inputs the calculator must not receive.
func (conf *Configuration) Validate() error {
	var errs []error

	if err := validation.ValidatePurchase(conf.Common.AssetValueDecimal(), conf.Common.DownPaymentDecimal()); err != nil {
		errs = append(errs, err)
	}

	inv := conf.Common.Investment
	if err := validation.ValidateRate("investment annualReturnRate", decimal.NewFromFloat(inv.AnnualReturnRate)); err != nil {
		errs = append(errs, err)
	}
	if _, err := rates.ParseBasis(inv.RateBasis); err != nil {
		errs = append(errs, fmt.Errorf("investment: %w", err))
	}
	if err := validation.ValidateContribution(decimal.NewFromFloat(inv.Contribution)); err != nil {
		errs = append(errs, err)
	}

	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			continue
		}
		if err := scenario.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Validate checks one scenario's loan parameters.
func (s Scenario) Validate() error {
	var errs []error
	if _, err := amortization.ParseMethod(s.Method); err != nil {
		errs = append(errs, err)
	}
	if _, err := rates.ParseBasis(s.RateBasis); err != nil {
		errs = append(errs, err)
	}
	if err := validation.ValidateRate("interestRate", decimal.NewFromFloat(s.InterestRate)); err != nil {
		errs = append(errs, err)
	}
	if err := validation.ValidateTerm("term", s.Term); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	active := conf.ActiveScenarios()
	if len(active) == 0 {
		warnings = append(warnings, "no active scenarios; nothing will be compared")
	}

	seen := make(map[string]struct{})
	for _, scenario := range active {
		if _, dup := seen[scenario.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = struct{}{}

		if scenario.Term > longHorizonMonths {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' term of %d months exceeds %d months",
				scenario.Name, scenario.Term, longHorizonMonths))
		}
		if scenario.InterestRate == 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a zero interest rate", scenario.Name))
		}
	}

	inv := conf.Common.Investment
	if conf.Common.DownPayment == 0 && inv.Contribution == 0 && !inv.ContributionFromInstallment {
		warnings = append(warnings, "investment has no down payment and no contributions; investor equity will be zero")
	}
	if inv.ContributionFromInstallment && inv.Contribution != 0 {
		warnings = append(warnings, "investment contribution is ignored because contributionFromInstallment is set")
	}

	return warnings
}
