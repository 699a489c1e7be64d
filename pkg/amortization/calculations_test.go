package amortization

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/iwvelando/buy-vs-invest/pkg/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func monthlyRate(t *testing.T, annual decimal.Decimal) decimal.Decimal {
	t.Helper()
	rate, err := rates.MonthlyFromEffectiveAnnual(annual)
	require.NoError(t, err)
	return rate
}

// assertClosure checks the identities every schedule must satisfy exactly.
func assertClosure(t *testing.T, schedule *Schedule, terms LoanTerms) {
	t.Helper()

	require.Len(t, schedule.Installments, terms.TermPeriods)
	require.Len(t, schedule.InterestPortions, terms.TermPeriods)
	require.Len(t, schedule.PrincipalPortions, terms.TermPeriods)
	require.Len(t, schedule.RemainingBalances, terms.TermPeriods)

	last := schedule.RemainingBalances[terms.TermPeriods-1]
	assert.True(t, last.IsZero(), "final balance must be exactly zero, got %s", last)

	sum := mathutil.Sum(schedule.PrincipalPortions)
	assert.True(t, sum.Equal(terms.Principal), "principal portions sum to %s, expected %s", sum, terms.Principal)

	for k := range schedule.Installments {
		total := schedule.InterestPortions[k].Add(schedule.PrincipalPortions[k])
		assert.True(t, schedule.Installments[k].Equal(total), "period %d: installment %s != interest + principal %s", k, schedule.Installments[k], total)
		assert.False(t, schedule.RemainingBalances[k].IsNegative(), "period %d: negative balance %s", k, schedule.RemainingBalances[k])
		if !terms.PeriodicRate.IsNegative() {
			assert.False(t, schedule.InterestPortions[k].IsNegative(), "period %d: negative interest %s", k, schedule.InterestPortions[k])
		}
	}

	interest := mathutil.Sum(schedule.InterestPortions)
	assert.True(t, schedule.TotalInterest.Equal(interest))
	assert.True(t, schedule.TotalPaid.Equal(terms.Principal.Add(interest)))
	assert.True(t, schedule.TotalPaid.Equal(mathutil.Sum(schedule.Installments)))
	assert.True(t, schedule.FirstInstallment.Equal(schedule.Installments[0]))
	assert.True(t, schedule.LastInstallment.Equal(schedule.Installments[terms.TermPeriods-1]))
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected Method
		wantErr  bool
	}{
		{"price", ConstantInstallment, false},
		{"", ConstantInstallment, false},
		{"Constant-Installment", ConstantInstallment, false},
		{"SAC", ConstantPrincipal, false},
		{"constant-principal", ConstantPrincipal, false},
		{"balloon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			method, err := ParseMethod(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, method)
		})
	}
}

func TestComputeRejectsInvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		terms   LoanTerms
		wantErr error
	}{
		{"Zero principal", LoanTerms{Principal: decimal.Zero, PeriodicRate: dec("0.01"), TermPeriods: 12}, ErrInvalidPrincipal},
		{"Negative principal", LoanTerms{Principal: dec("-100"), PeriodicRate: dec("0.01"), TermPeriods: 12}, ErrInvalidPrincipal},
		{"Zero term", LoanTerms{Principal: dec("1000"), PeriodicRate: dec("0.01"), TermPeriods: 0}, ErrInvalidTerm},
		{"Negative term", LoanTerms{Principal: dec("1000"), PeriodicRate: dec("0.01"), TermPeriods: -5}, ErrInvalidTerm},
	}

	for _, tt := range tests {
		for _, method := range []Method{ConstantInstallment, ConstantPrincipal} {
			t.Run(tt.name+"/"+method.String(), func(t *testing.T) {
				schedule, err := Compute(method, tt.terms)
				assert.Nil(t, schedule)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			})
		}
	}

	_, err := Compute(Method("balloon"), LoanTerms{Principal: dec("1000"), TermPeriods: 1})
	assert.Error(t, err)
}

func TestCalculateInstallment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		min       string
		max       string
	}{
		{"Standard 30-year mortgage", "240000", "0.005", 360, "1438.9", "1439.0"}, // 6% nominal
		{"5-year car loan", "20000", "0.003333333333333333", 60, "368.3", "368.4"},
		{"Zero interest loan", "10000", "0", 60, "166.666666", "166.666667"},
		{"High interest loan", "10000", "0.015", 36, "361.5", "361.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installment := CalculateInstallment(dec(tt.principal), dec(tt.rate), tt.term)
			assert.True(t, installment.GreaterThanOrEqual(dec(tt.min)) && installment.LessThanOrEqual(dec(tt.max)),
				"CalculateInstallment() = %s, expected range [%s, %s]", installment, tt.min, tt.max)
		})
	}

	assert.True(t, CalculateInstallment(dec("1000"), dec("0.01"), 0).IsZero())
}

func TestCalculateInterest(t *testing.T) {
	assert.True(t, CalculateInterest(dec("200000"), dec("0.005")).Equal(dec("1000")))
	assert.True(t, CalculateInterest(dec("15000"), dec("0.00375")).Equal(dec("56.25")))
	assert.True(t, CalculateInterest(dec("10000"), decimal.Zero).IsZero())
}

func TestConstantInstallmentZeroRate(t *testing.T) {
	terms := LoanTerms{Principal: dec("120000"), PeriodicRate: decimal.Zero, TermPeriods: 12}
	schedule, err := Compute(ConstantInstallment, terms)
	require.NoError(t, err)
	assertClosure(t, schedule, terms)

	for k := range schedule.Installments {
		assert.True(t, schedule.Installments[k].Equal(dec("10000")), "period %d installment %s", k, schedule.Installments[k])
		assert.True(t, schedule.InterestPortions[k].IsZero(), "period %d interest %s", k, schedule.InterestPortions[k])
	}
	assert.True(t, schedule.TotalInterest.IsZero())
	assert.True(t, schedule.TotalPaid.Equal(dec("120000")))
}

func TestConstantInstallmentFixedPayment(t *testing.T) {
	terms := LoanTerms{Principal: dec("450000"), PeriodicRate: monthlyRate(t, dec("0.10")), TermPeriods: 30}
	schedule, err := Compute(ConstantInstallment, terms)
	require.NoError(t, err)
	assertClosure(t, schedule, terms)

	first := schedule.Installments[0]
	last := schedule.Installments[29]
	assert.True(t, first.Sub(last).Abs().LessThan(dec("0.00000001")), "first %s and last %s installments differ", first, last)
	assert.True(t, schedule.RemainingBalances[29].IsZero())

	for k := 1; k < terms.TermPeriods; k++ {
		assert.True(t, schedule.PrincipalPortions[k].GreaterThan(schedule.PrincipalPortions[k-1]), "principal not increasing at %d", k)
		assert.True(t, schedule.InterestPortions[k].LessThan(schedule.InterestPortions[k-1]), "interest not decreasing at %d", k)
	}
}

func TestConstantInstallmentAmortizationGrows(t *testing.T) {
	terms := LoanTerms{Principal: dec("900000"), PeriodicRate: monthlyRate(t, dec("0.10")), TermPeriods: 30}
	schedule, err := Compute(ConstantInstallment, terms)
	require.NoError(t, err)
	assertClosure(t, schedule, terms)

	assert.True(t, schedule.PrincipalPortions[29].GreaterThan(schedule.PrincipalPortions[0]))
	assert.True(t, mathutil.WithinTolerance(schedule.Installments[0], schedule.Installments[29], dec("0.01")))
}

func TestConstantPrincipalSchedule(t *testing.T) {
	terms := LoanTerms{Principal: dec("900000"), PeriodicRate: monthlyRate(t, dec("0.10")), TermPeriods: 30}
	schedule, err := Compute(ConstantPrincipal, terms)
	require.NoError(t, err)
	assertClosure(t, schedule, terms)

	assert.True(t, schedule.PrincipalPortions[0].Equal(dec("30000")))
	assert.True(t, schedule.PrincipalPortions[29].Equal(dec("30000")))
	for k := 0; k < terms.TermPeriods-1; k++ {
		assert.True(t, schedule.PrincipalPortions[k].Equal(schedule.PrincipalPortions[0]), "principal changed at %d", k)
	}
	for k := 1; k < terms.TermPeriods; k++ {
		assert.True(t, schedule.Installments[k].LessThan(schedule.Installments[k-1]), "installment not decreasing at %d", k)
	}
	assert.True(t, schedule.Installments[0].GreaterThan(schedule.Installments[29]))
}

func TestConstantPrincipalInexactSplit(t *testing.T) {
	terms := LoanTerms{Principal: dec("100000"), PeriodicRate: dec("0.01"), TermPeriods: 7}
	schedule, err := Compute(ConstantPrincipal, terms)
	require.NoError(t, err)
	assertClosure(t, schedule, terms)

	// 100000/7 does not terminate; the last period absorbs the remainder.
	assert.False(t, schedule.PrincipalPortions[6].Equal(schedule.PrincipalPortions[0]))
	assert.True(t, schedule.PrincipalPortions[6].Sub(schedule.PrincipalPortions[0]).Abs().LessThan(dec("0.000000000001")))
}

func TestSinglePeriodSchedules(t *testing.T) {
	terms := LoanTerms{Principal: dec("5000"), PeriodicRate: dec("0.02"), TermPeriods: 1}
	for _, method := range []Method{ConstantInstallment, ConstantPrincipal} {
		t.Run(method.String(), func(t *testing.T) {
			schedule, err := Compute(method, terms)
			require.NoError(t, err)
			assertClosure(t, schedule, terms)
			assert.True(t, schedule.Installments[0].Equal(dec("5100")), "got %s", schedule.Installments[0])
		})
	}
}

func TestNegativeRateIsAcceptedMechanically(t *testing.T) {
	terms := LoanTerms{Principal: dec("10000"), PeriodicRate: dec("-0.001"), TermPeriods: 24}
	for _, method := range []Method{ConstantInstallment, ConstantPrincipal} {
		t.Run(method.String(), func(t *testing.T) {
			schedule, err := Compute(method, terms)
			require.NoError(t, err)
			assertClosure(t, schedule, terms)
			assert.True(t, schedule.TotalInterest.IsNegative())
		})
	}
}

func TestRandomSchedulesClose(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randomBetween := func(min, max float64) float64 {
		return rng.Float64()*(max-min) + min
	}

	for i := 0; i < 200; i++ {
		terms := LoanTerms{
			Principal:    decimal.NewFromFloat(randomBetween(50000, 2000000)).Round(2),
			PeriodicRate: monthlyRate(t, decimal.NewFromFloat(randomBetween(0.04, 0.18))),
			TermPeriods:  int(randomBetween(12, 420)),
		}
		for _, method := range []Method{ConstantInstallment, ConstantPrincipal} {
			schedule, err := Compute(method, terms)
			require.NoError(t, err)
			assertClosure(t, schedule, terms)
		}
	}
}

func TestPeriodsAndLastRemainingBalance(t *testing.T) {
	terms := LoanTerms{Principal: dec("1200"), PeriodicRate: decimal.Zero, TermPeriods: 3}
	schedule, err := Compute(ConstantPrincipal, terms)
	require.NoError(t, err)

	rows := schedule.Periods()
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Number)
	assert.True(t, rows[0].RemainingBalance.Equal(dec("800")))
	assert.True(t, rows[2].RemainingBalance.IsZero())
	assert.True(t, schedule.LastRemainingBalance().IsZero())

	empty := &Schedule{Principal: dec("10")}
	assert.True(t, empty.LastRemainingBalance().Equal(dec("10")))
}

func TestCalculatorLogsAndDelegates(t *testing.T) {
	calculator := NewCalculator(zap.NewNop())
	terms := LoanTerms{Principal: dec("1000"), PeriodicRate: dec("0.01"), TermPeriods: 10}
	schedule, err := calculator.Compute(ConstantInstallment, terms)
	require.NoError(t, err)
	assertClosure(t, schedule, terms)

	_, err = NewCalculator(nil).Compute(ConstantPrincipal, LoanTerms{Principal: dec("1000")})
	assert.ErrorIs(t, err, ErrInvalidTerm)
}
