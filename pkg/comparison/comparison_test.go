package comparison

import (
	"encoding/json"
	"testing"

	"github.com/iwvelando/buy-vs-invest/pkg/amortization"
	"github.com/iwvelando/buy-vs-invest/pkg/investment"
	"github.com/iwvelando/buy-vs-invest/pkg/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func monthlyRate(t *testing.T, annual string) decimal.Decimal {
	t.Helper()
	rate, err := rates.MonthlyFromEffectiveAnnual(dec(annual))
	require.NoError(t, err)
	return rate
}

func schedule(t *testing.T, principal string, annualRate string, term int) *amortization.Schedule {
	t.Helper()
	s, err := amortization.Compute(amortization.ConstantInstallment, amortization.LoanTerms{
		Principal:    dec(principal),
		PeriodicRate: monthlyRate(t, annualRate),
		TermPeriods:  term,
	})
	require.NoError(t, err)
	return s
}

func TestCompareBuyerWins(t *testing.T) {
	loan := schedule(t, "450000", "0.10", 360)
	series := investment.Project(dec("50000"), dec("400"), monthlyRate(t, "0.04"), 360)

	result := Compare(loan, dec("500000"), series)

	assert.Equal(t, Buyer, result.Winner)
	assert.True(t, result.BuyerEquity.Equal(dec("500000")), "a retired loan leaves the full asset value, got %s", result.BuyerEquity)
	assert.True(t, result.InvestorEquity.Equal(series.FinalBalance))
	assert.True(t, result.EquityDelta.Equal(dec("500000").Sub(series.FinalBalance)))
	assert.True(t, result.TotalPaid.Equal(loan.TotalPaid))
	assert.True(t, result.TotalInterest.Equal(loan.TotalInterest))
	assert.True(t, result.TotalContributed.Equal(dec("194000")))
	assert.True(t, result.InvestmentEarnings.Equal(series.Earnings()))
}

func TestCompareInvestorWins(t *testing.T) {
	loan := schedule(t, "400000", "0.10", 360)
	series := investment.Project(dec("100000"), dec("3500"), monthlyRate(t, "0.11"), 360)

	result := Compare(loan, dec("500000"), series)

	assert.Equal(t, Investor, result.Winner)
	assert.False(t, result.EquityDelta.IsNegative())
	assert.True(t, result.EquityDelta.Equal(series.FinalBalance.Sub(dec("500000"))))
}

func TestCompareTieGoesToBuyer(t *testing.T) {
	loan := schedule(t, "1000", "0.05", 12)
	series := investment.Project(dec("2000"), decimal.Zero, decimal.Zero, 12)

	result := Compare(loan, dec("2000"), series)

	assert.Equal(t, Buyer, result.Winner)
	assert.True(t, result.EquityDelta.IsZero())
}

func TestCompareWithOutstandingBalance(t *testing.T) {
	loan := &amortization.Schedule{
		Principal:         dec("1000"),
		RemainingBalances: []decimal.Decimal{dec("600"), dec("250")},
	}
	series := investment.Project(dec("600"), decimal.Zero, decimal.Zero, 2)

	result := Compare(loan, dec("1000"), series)

	assert.True(t, result.BuyerEquity.Equal(dec("750")))
	assert.Equal(t, Buyer, result.Winner)
	assert.True(t, result.EquityDelta.Equal(dec("150")))
}

func TestWinnerText(t *testing.T) {
	assert.Equal(t, "buyer", Buyer.String())
	assert.Equal(t, "investor", Investor.String())

	data, err := json.Marshal(map[string]Winner{"winner": Investor})
	require.NoError(t, err)
	assert.JSONEq(t, `{"winner":"investor"}`, string(data))
}

func TestWinnerUnmarshalText(t *testing.T) {
	var decoded map[string]Winner
	require.NoError(t, json.Unmarshal([]byte(`{"a":"investor","b":"buyer"}`), &decoded))
	assert.Equal(t, Investor, decoded["a"])
	assert.Equal(t, Buyer, decoded["b"])

	var w Winner
	assert.Error(t, w.UnmarshalText([]byte("landlord")))
}
