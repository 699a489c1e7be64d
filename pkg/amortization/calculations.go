package amortization

import (
	"fmt"

	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var one = decimal.NewFromInt(1)

// Compute builds the full schedule for the given method.
func Compute(method Method, terms LoanTerms) (*Schedule, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	switch method {
	case ConstantInstallment:
		return constantInstallment(terms), nil
	case ConstantPrincipal:
		return constantPrincipal(terms), nil
	default:
		return nil, fmt.Errorf("unsupported amortization method %q", method)
	}
}

// CalculateInstallment returns the fixed Price installment
// P * i(1+i)^n / ((1+i)^n - 1), or P/n when the rate is zero.
func CalculateInstallment(principal, periodicRate decimal.Decimal, termPeriods int) decimal.Decimal {
	if termPeriods <= 0 {
		return decimal.Zero
	}
	evenSplit := principal.DivRound(decimal.NewFromInt(int64(termPeriods)), constants.WorkingScale)
	if periodicRate.IsZero() {
		return evenSplit
	}

	power := mathutil.PowInt(one.Add(periodicRate), termPeriods, constants.PowerScale)
	denominator := power.Sub(one)
	if denominator.IsZero() {
		// The rate vanished below the power scale.
		return evenSplit
	}
	numerator := principal.Mul(periodicRate).Mul(power)
	return numerator.DivRound(denominator, constants.WorkingScale)
}

// CalculateInterest returns the interest charged on a balance for one period.
func CalculateInterest(balance, periodicRate decimal.Decimal) decimal.Decimal {
	return mathutil.Working(balance.Mul(periodicRate))
}

func constantInstallment(terms LoanTerms) *Schedule {
	schedule := newSchedule(ConstantInstallment, terms)
	installment := CalculateInstallment(terms.Principal, terms.PeriodicRate, terms.TermPeriods)
	last := terms.TermPeriods - 1

	balance := terms.Principal
	for m := 0; m < terms.TermPeriods; m++ {
		interest := CalculateInterest(balance, terms.PeriodicRate)
		payment := installment
		principal := installment.Sub(interest)
		if m == last {
			// Retire whatever is left so no residual survives the term.
			principal = balance
			payment = interest.Add(principal)
		}
		balance = balance.Sub(principal)
		schedule.appendPeriod(payment, interest, principal, mathutil.Max(balance, decimal.Zero))
	}

	schedule.finish()
	return schedule
}

func constantPrincipal(terms LoanTerms) *Schedule {
	schedule := newSchedule(ConstantPrincipal, terms)
	baseAmortization := terms.Principal.DivRound(decimal.NewFromInt(int64(terms.TermPeriods)), constants.WorkingScale)
	last := terms.TermPeriods - 1

	balance := terms.Principal
	for m := 0; m < terms.TermPeriods; m++ {
		interest := CalculateInterest(balance, terms.PeriodicRate)
		principal := baseAmortization
		if m == last {
			principal = balance
		}
		balance = balance.Sub(principal)
		schedule.appendPeriod(principal.Add(interest), interest, principal, mathutil.Max(balance, decimal.Zero))
	}

	schedule.finish()
	return schedule
}

// Calculator wraps Compute with debug logging for callers that run many
// schedules.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new calculator instance
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Compute builds a schedule and logs its headline figures.
func (c *Calculator) Compute(method Method, terms LoanTerms) (*Schedule, error) {
	schedule, err := Compute(method, terms)
	if err != nil {
		c.logger.Debug("rejected amortization inputs",
			zap.String("op", "amortization.Compute"),
			zap.String("method", method.String()),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug(fmt.Sprintf("computed %s schedule over %d periods", method.Label(), terms.TermPeriods),
		zap.String("op", "amortization.Compute"),
		zap.String("principal", terms.Principal.String()),
		zap.String("periodicRate", terms.PeriodicRate.String()),
		zap.String("firstInstallment", mathutil.Round(schedule.FirstInstallment).String()),
		zap.String("totalInterest", mathutil.Round(schedule.TotalInterest).String()),
	)
	return schedule, nil
}
