// Package investment projects the balance of a recurring-contribution
// investment compounded once per period.
package investment

import (
	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Series holds the balance after every period of a projection.
type Series struct {
	InitialDeposit       decimal.Decimal
	PeriodicContribution decimal.Decimal
	PeriodicRate         decimal.Decimal

	Balances []decimal.Decimal

	// FinalBalance is the last entry of Balances, or the initial deposit when
	// the projection has no periods.
	FinalBalance decimal.Decimal
	// TotalContributed includes the initial deposit.
	TotalContributed decimal.Decimal
}

// Earnings returns the growth accumulated on top of everything contributed.
func (s *Series) Earnings() decimal.Decimal {
	return s.FinalBalance.Sub(s.TotalContributed)
}

// Periods returns the number of projected periods.
func (s *Series) Periods() int {
	return len(s.Balances)
}

// Project grows the existing balance first and then adds the period's
// contribution (end-of-period deposits). A non-positive term yields an empty
// series whose final balance is the initial deposit.
func Project(initialDeposit, periodicContribution, periodicRate decimal.Decimal, termPeriods int) *Series {
	series := &Series{
		InitialDeposit:       initialDeposit,
		PeriodicContribution: periodicContribution,
		PeriodicRate:         periodicRate,
		FinalBalance:         initialDeposit,
		TotalContributed:     initialDeposit,
	}
	if termPeriods <= 0 {
		series.Balances = []decimal.Decimal{}
		return series
	}

	growthFactor := decimal.NewFromInt(1).Add(periodicRate)
	balance := initialDeposit
	series.Balances = make([]decimal.Decimal, 0, termPeriods)
	for m := 0; m < termPeriods; m++ {
		balance = mathutil.Working(balance.Mul(growthFactor)).Add(periodicContribution)
		series.Balances = append(series.Balances, balance)
	}

	series.FinalBalance = balance
	series.TotalContributed = initialDeposit.Add(periodicContribution.Mul(decimal.NewFromInt(int64(termPeriods))))
	return series
}
