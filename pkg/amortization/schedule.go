// Package amortization computes period-by-period loan repayment schedules for
// the constant-installment (Price) and constant-principal (SAC) methods.
package amortization

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPrincipal is returned when the financed principal is not positive.
	ErrInvalidPrincipal = errors.New("invalid principal: must be greater than zero")
	// ErrInvalidTerm is returned when the term has no periods.
	ErrInvalidTerm = errors.New("invalid term: must be at least one period")
	// ErrInvalidRate is reserved for caller-side validation of negative rates.
	// Compute itself accepts any rate.
	ErrInvalidRate = errors.New("invalid rate: must not be negative")
)

// Method selects the amortization algorithm.
type Method string

const (
	// ConstantInstallment is the Price (French) method: a fixed payment per period.
	ConstantInstallment Method = "price"
	// ConstantPrincipal is the SAC method: a fixed principal reduction per period.
	ConstantPrincipal Method = "sac"
)

// ParseMethod accepts the short and long names of each method.
func ParseMethod(value string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "price", "french", "constant-installment", "constantinstallment":
		return ConstantInstallment, nil
	case "sac", "constant-principal", "constantprincipal":
		return ConstantPrincipal, nil
	default:
		return "", fmt.Errorf("unsupported amortization method %q", value)
	}
}

// String returns the canonical short name.
func (m Method) String() string {
	return string(m)
}

// Label returns a human-readable name.
func (m Method) Label() string {
	switch m {
	case ConstantInstallment:
		return "Price (constant installment)"
	case ConstantPrincipal:
		return "SAC (constant principal)"
	default:
		return string(m)
	}
}

// LoanTerms holds the inputs of one amortization calculation.
type LoanTerms struct {
	Principal    decimal.Decimal
	PeriodicRate decimal.Decimal
	TermPeriods  int
}

// Validate enforces the calculator contract. Negative rates are accepted.
func (t LoanTerms) Validate() error {
	if !t.Principal.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidPrincipal, t.Principal)
	}
	if t.TermPeriods <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTerm, t.TermPeriods)
	}
	return nil
}

// Schedule is a completed amortization schedule. All sequences have one entry
// per period and the final remaining balance is exactly zero.
type Schedule struct {
	Method       Method
	Principal    decimal.Decimal
	PeriodicRate decimal.Decimal
	TermPeriods  int

	Installments      []decimal.Decimal
	InterestPortions  []decimal.Decimal
	PrincipalPortions []decimal.Decimal
	RemainingBalances []decimal.Decimal

	TotalInterest    decimal.Decimal
	TotalPaid        decimal.Decimal
	FirstInstallment decimal.Decimal
	LastInstallment  decimal.Decimal
}

// Period is one row of a schedule.
type Period struct {
	Number           int
	Installment      decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	RemainingBalance decimal.Decimal
}

// Periods returns the schedule as rows numbered from 1.
func (s *Schedule) Periods() []Period {
	rows := make([]Period, len(s.Installments))
	for k := range s.Installments {
		rows[k] = Period{
			Number:           k + 1,
			Installment:      s.Installments[k],
			Interest:         s.InterestPortions[k],
			Principal:        s.PrincipalPortions[k],
			RemainingBalance: s.RemainingBalances[k],
		}
	}
	return rows
}

// LastRemainingBalance returns the balance after the final period, or the
// principal for an empty schedule.
func (s *Schedule) LastRemainingBalance() decimal.Decimal {
	if len(s.RemainingBalances) == 0 {
		return s.Principal
	}
	return s.RemainingBalances[len(s.RemainingBalances)-1]
}

func newSchedule(method Method, terms LoanTerms) *Schedule {
	n := terms.TermPeriods
	return &Schedule{
		Method:            method,
		Principal:         terms.Principal,
		PeriodicRate:      terms.PeriodicRate,
		TermPeriods:       n,
		Installments:      make([]decimal.Decimal, 0, n),
		InterestPortions:  make([]decimal.Decimal, 0, n),
		PrincipalPortions: make([]decimal.Decimal, 0, n),
		RemainingBalances: make([]decimal.Decimal, 0, n),
		TotalInterest:     decimal.Zero,
	}
}

func (s *Schedule) appendPeriod(installment, interest, principal, remaining decimal.Decimal) {
	s.Installments = append(s.Installments, installment)
	s.InterestPortions = append(s.InterestPortions, interest)
	s.PrincipalPortions = append(s.PrincipalPortions, principal)
	s.RemainingBalances = append(s.RemainingBalances, remaining)
	s.TotalInterest = s.TotalInterest.Add(interest)
}

func (s *Schedule) finish() {
	s.TotalPaid = s.Principal.Add(s.TotalInterest)
	if len(s.Installments) > 0 {
		s.FirstInstallment = s.Installments[0]
		s.LastInstallment = s.Installments[len(s.Installments)-1]
	}
}
