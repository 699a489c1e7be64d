// Package comparison derives terminal wealth for the buy and invest paths and
// reports which one ends ahead.
package comparison

import (
	"fmt"

	"github.com/iwvelando/buy-vs-invest/pkg/amortization"
	"github.com/iwvelando/buy-vs-invest/pkg/investment"
	"github.com/shopspring/decimal"
)

// Winner identifies the path with the greater terminal wealth.
type Winner int

const (
	// Buyer wins ties.
	Buyer Winner = iota
	// Investor wins only with strictly greater equity.
	Investor
)

func (w Winner) String() string {
	if w == Investor {
		return "investor"
	}
	return "buyer"
}

// MarshalText renders the winner by name in JSON and YAML.
func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText parses a winner name.
func (w *Winner) UnmarshalText(text []byte) error {
	switch string(text) {
	case "buyer":
		*w = Buyer
	case "investor":
		*w = Investor
	default:
		return fmt.Errorf("unknown winner %q", text)
	}
	return nil
}

// Result is the outcome of one comparison.
type Result struct {
	BuyerEquity    decimal.Decimal
	InvestorEquity decimal.Decimal
	Winner         Winner
	EquityDelta    decimal.Decimal

	TotalPaid          decimal.Decimal
	TotalInterest      decimal.Decimal
	TotalContributed   decimal.Decimal
	InvestmentEarnings decimal.Decimal
}

// Compare evaluates both paths at the end of the horizon. Both inputs must
// cover the same number of periods; that precondition is not checked here.
func Compare(schedule *amortization.Schedule, assetValue decimal.Decimal, series *investment.Series) Result {
	buyerEquity := assetValue.Sub(schedule.LastRemainingBalance())
	investorEquity := series.FinalBalance

	winner := Buyer
	if investorEquity.GreaterThan(buyerEquity) {
		winner = Investor
	}

	return Result{
		BuyerEquity:        buyerEquity,
		InvestorEquity:     investorEquity,
		Winner:             winner,
		EquityDelta:        investorEquity.Sub(buyerEquity).Abs(),
		TotalPaid:          schedule.TotalPaid,
		TotalInterest:      schedule.TotalInterest,
		TotalContributed:   series.TotalContributed,
		InvestmentEarnings: series.Earnings(),
	}
}
