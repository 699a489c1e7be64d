// Package scenario evaluates each configured financing option against the
// alternative of investing the down payment over the same horizon.
package scenario

import (
	"fmt"

	"github.com/iwvelando/buy-vs-invest/internal/config"
	"github.com/iwvelando/buy-vs-invest/pkg/amortization"
	"github.com/iwvelando/buy-vs-invest/pkg/audit"
	"github.com/iwvelando/buy-vs-invest/pkg/comparison"
	"github.com/iwvelando/buy-vs-invest/pkg/investment"
	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/iwvelando/buy-vs-invest/pkg/rates"
	"github.com/iwvelando/buy-vs-invest/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result holds everything computed for one scenario.
type Result struct {
	Name   string
	Method amortization.Method

	AssetValue   decimal.Decimal
	DownPayment  decimal.Decimal
	Financed     decimal.Decimal
	LoanRate     decimal.Decimal // periodic
	InvestRate   decimal.Decimal // periodic
	Contribution decimal.Decimal // periodic

	Schedule   *amortization.Schedule
	Series     *investment.Series
	Comparison comparison.Result
	Findings   []audit.Finding
}

// TotalOutlay is everything the buyer pays: down payment plus installments.
func (r Result) TotalOutlay() decimal.Decimal {
	return r.DownPayment.Add(r.Schedule.TotalPaid)
}

// Evaluator runs scenarios with shared logging and auditing.
type Evaluator struct {
	logger     *zap.Logger
	calculator *amortization.Calculator
	auditor    *audit.Auditor
}

// NewEvaluator creates an evaluator; a nil logger discards output.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		logger:     logger,
		calculator: amortization.NewCalculator(logger),
		auditor:    audit.NewAuditor(logger),
	}
}

// Run evaluates the configuration with a fresh Evaluator.
func Run(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	return NewEvaluator(logger).Run(conf)
}

// Run evaluates every active scenario concurrently. Results keep
// configuration order.
func (e *Evaluator) Run(conf config.Configuration) ([]Result, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	active := conf.ActiveScenarios()
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			e.logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "scenario.Run"),
			)
		}
	}

	results := make([]Result, len(active))
	var g errgroup.Group
	for i := range active {
		i := i
		g.Go(func() error {
			result, err := e.Evaluate(conf.Common, active[i], conf.Audit.DevMode)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Evaluate computes one scenario: schedule, investment projection over the
// same number of periods, comparison, and audit findings when devMode is set.
func (e *Evaluator) Evaluate(common config.Common, scenario config.Scenario, devMode bool) (Result, error) {
	method, err := amortization.ParseMethod(scenario.Method)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	loanRate, err := periodicRate(scenario.InterestRate, scenario.RateBasis)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	investRate, err := periodicRate(common.Investment.AnnualReturnRate, common.Investment.RateBasis)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q investment: %w", scenario.Name, err)
	}

	result := Result{
		Name:        scenario.Name,
		Method:      method,
		AssetValue:  common.AssetValueDecimal(),
		DownPayment: common.DownPaymentDecimal(),
		Financed:    common.Financed(),
		LoanRate:    loanRate,
		InvestRate:  investRate,
	}

	result.Schedule, err = e.calculator.Compute(method, amortization.LoanTerms{
		Principal:    result.Financed,
		PeriodicRate: loanRate,
		TermPeriods:  scenario.Term,
	})
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	result.Contribution = decimal.NewFromFloat(common.Investment.Contribution)
	if common.Investment.ContributionFromInstallment {
		result.Contribution = result.Schedule.FirstInstallment
	}
	result.Series = investment.Project(result.DownPayment, result.Contribution, investRate, scenario.Term)

	if err := validation.ValidateHorizon(result.Schedule, result.Series); err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	result.Comparison = comparison.Compare(result.Schedule, result.AssetValue, result.Series)
	result.Findings = e.auditor.AuditSchedule(result.Schedule, devMode)

	e.logger.Info(fmt.Sprintf("scenario %s evaluated", scenario.Name),
		zap.String("op", "scenario.Evaluate"),
		zap.String("method", method.String()),
		zap.Int("periods", scenario.Term),
		zap.String("winner", result.Comparison.Winner.String()),
		zap.String("equityDelta", mathutil.Round(result.Comparison.EquityDelta).String()),
		zap.Int("findings", len(result.Findings)),
	)

	return result, nil
}

func periodicRate(percent float64, basis string) (decimal.Decimal, error) {
	parsed, err := rates.ParseBasis(basis)
	if err != nil {
		return decimal.Zero, err
	}
	return rates.PeriodicFromPercent(decimal.NewFromFloat(percent), parsed)
}
