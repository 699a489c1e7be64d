package investment

import (
	"testing"

	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/iwvelando/buy-vs-invest/pkg/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProjectGrowsOverTime(t *testing.T) {
	rate, err := rates.MonthlyFromEffectiveAnnual(dec("0.11"))
	require.NoError(t, err)
	series := Project(dec("100000"), dec("25000"), rate, 24)

	require.Len(t, series.Balances, 24)
	assert.Equal(t, 24, series.Periods())
	assert.True(t, series.Balances[23].GreaterThan(series.Balances[0]))
	assert.True(t, series.FinalBalance.Equal(series.Balances[23]))
	assert.True(t, series.TotalContributed.Equal(dec("700000")), "got %s", series.TotalContributed)
	assert.True(t, series.Earnings().IsPositive())

	for k := 1; k < len(series.Balances); k++ {
		assert.True(t, series.Balances[k].GreaterThanOrEqual(series.Balances[k-1]), "balance decreased at %d", k)
	}
}

func TestProjectGrowthBeforeContribution(t *testing.T) {
	series := Project(dec("1000"), dec("100"), dec("0.1"), 2)

	require.Len(t, series.Balances, 2)
	// 1000*1.1 + 100 = 1200, then 1200*1.1 + 100 = 1420
	assert.True(t, series.Balances[0].Equal(dec("1200")), "got %s", series.Balances[0])
	assert.True(t, series.Balances[1].Equal(dec("1420")), "got %s", series.Balances[1])
	assert.True(t, series.TotalContributed.Equal(dec("1200")))
	assert.True(t, series.Earnings().Equal(dec("220")))
}

func TestProjectZeroRate(t *testing.T) {
	series := Project(dec("500"), dec("50"), decimal.Zero, 10)

	require.Len(t, series.Balances, 10)
	assert.True(t, series.FinalBalance.Equal(dec("1000")))
	assert.True(t, series.Earnings().IsZero())
}

func TestProjectDegenerateTerm(t *testing.T) {
	for _, term := range []int{0, -3} {
		series := Project(dec("100000"), decimal.Zero, dec("0.01"), term)

		assert.NotNil(t, series.Balances)
		assert.Empty(t, series.Balances)
		assert.True(t, series.FinalBalance.Equal(dec("100000")))
		assert.True(t, series.TotalContributed.Equal(dec("100000")))
	}
}

func TestProjectLongHorizonNonDecreasing(t *testing.T) {
	rate, err := rates.MonthlyFromEffectiveAnnual(dec("0.08"))
	require.NoError(t, err)
	series := Project(dec("50000"), dec("1500"), rate, 420)

	require.Len(t, series.Balances, 420)
	for k := 1; k < len(series.Balances); k++ {
		require.True(t, series.Balances[k].GreaterThanOrEqual(series.Balances[k-1]), "balance decreased at %d", k)
	}

	// Closed form: D(1+i)^n + C((1+i)^n - 1)/i
	growth := mathutil.PowInt(decimal.NewFromInt(1).Add(rate), 420, 30)
	expected := dec("50000").Mul(growth).Add(dec("1500").Mul(growth.Sub(decimal.NewFromInt(1))).DivRound(rate, 18))
	assert.True(t, mathutil.WithinTolerance(series.FinalBalance, expected, dec("0.000001")),
		"expected %s, got %s", expected, series.FinalBalance)
}
