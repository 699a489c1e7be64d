// Package audit runs development-time plausibility checks over computed
// schedules. Findings are advisory and never change a result.
package audit

import (
	"fmt"

	"github.com/iwvelando/buy-vs-invest/pkg/amortization"
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Level is the severity of a finding.
type Level string

const (
	// Warning marks a figure that is unusual but possible.
	Warning Level = "warning"
	// Error marks a figure that indicates a defect in the calculation.
	Error Level = "error"
)

// Finding is one diagnostic message.
type Finding struct {
	Level   Level  `json:"level" yaml:"level"`
	Check   string `json:"check" yaml:"check"`
	Message string `json:"message" yaml:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Level, f.Check, f.Message)
}

var (
	minRatioConstantPrincipal   = decimal.RequireFromString(constants.MinInterestRatioConstantPrincipal)
	minRatioConstantInstallment = decimal.RequireFromString(constants.MinInterestRatioConstantInstallment)
	currencyTolerance           = decimal.RequireFromString(constants.CurrencyTolerance)
)

// MinimumInterestRatio returns the lowest plausible total-interest to
// principal ratio for a method.
func MinimumInterestRatio(method amortization.Method) decimal.Decimal {
	if method == amortization.ConstantPrincipal {
		return minRatioConstantPrincipal
	}
	return minRatioConstantInstallment
}

// Auditor checks schedules and logs what it finds.
type Auditor struct {
	logger *zap.Logger
}

// NewAuditor creates an auditor; a nil logger discards output.
func NewAuditor(logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{logger: logger}
}

// AuditSchedule returns findings for the schedule when devMode is set and
// nothing otherwise.
func (a *Auditor) AuditSchedule(schedule *amortization.Schedule, devMode bool) []Finding {
	if !devMode || schedule == nil {
		return nil
	}

	findings := Schedule(schedule)
	for _, finding := range findings {
		fields := []zap.Field{
			zap.String("op", "audit.AuditSchedule"),
			zap.String("check", finding.Check),
			zap.String("method", schedule.Method.String()),
		}
		if finding.Level == Error {
			a.logger.Error(finding.Message, fields...)
		} else {
			a.logger.Warn(finding.Message, fields...)
		}
	}
	return findings
}

// Schedule runs every check unconditionally.
func Schedule(schedule *amortization.Schedule) []Finding {
	var findings []Finding

	if schedule.TermPeriods <= 0 || len(schedule.Installments) == 0 {
		findings = append(findings, Finding{
			Level:   Error,
			Check:   "term",
			Message: fmt.Sprintf("non-positive term: %d periods", schedule.TermPeriods),
		})
		return findings
	}

	if !schedule.PeriodicRate.IsNegative() && schedule.TotalPaid.LessThan(schedule.Principal) {
		findings = append(findings, Finding{
			Level: Error,
			Check: "total-paid",
			Message: fmt.Sprintf("total paid %s is below principal %s",
				mathutil.Round(schedule.TotalPaid), mathutil.Round(schedule.Principal)),
		})
	}

	if expected := schedule.Principal.Add(schedule.TotalInterest); !mathutil.WithinTolerance(schedule.TotalPaid, expected, currencyTolerance) {
		findings = append(findings, Finding{
			Level: Error,
			Check: "totals",
			Message: fmt.Sprintf("total paid %s differs from principal plus interest %s",
				mathutil.Round(schedule.TotalPaid), mathutil.Round(expected)),
		})
	}

	if !schedule.LastRemainingBalance().IsZero() {
		findings = append(findings, Finding{
			Level:   Error,
			Check:   "closure",
			Message: fmt.Sprintf("remaining balance %s after the final period", schedule.LastRemainingBalance()),
		})
	}

	if schedule.PeriodicRate.IsPositive() {
		ratio := mathutil.Ratio(schedule.TotalInterest, schedule.Principal)
		minimum := MinimumInterestRatio(schedule.Method)
		if ratio.LessThan(minimum) {
			findings = append(findings, Finding{
				Level: Warning,
				Check: "interest-ratio",
				Message: fmt.Sprintf("total interest is %s%% of principal, below the %s%% expected for %s",
					ratio.Shift(2).StringFixed(2), minimum.Shift(2).StringFixed(0), schedule.Method.Label()),
			})
		}
	}

	return findings
}
