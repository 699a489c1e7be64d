// Package output provides utilities for formatting and displaying scenario results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/buy-vs-invest/internal/scenario"
	"github.com/iwvelando/buy-vs-invest/pkg/comparison"
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/iwvelando/buy-vs-invest/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report,
// including up to maxRows schedule rows per scenario.
func PrettyFormat(w io.Writer, results []scenario.Result, maxRows int) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		s := result.Schedule
		c := result.Comparison

		_, _ = p.Fprintf(w, "--- Results for scenario %s (%s, %d months) ---\n", result.Name, result.Method.Label(), s.TermPeriods)
		_, _ = fmt.Fprintf(w, "Financing\n")
		_, _ = fmt.Fprintf(w, "  Financed amount     | %s\n", format.Currency(result.Financed))
		_, _ = fmt.Fprintf(w, "  Periodic rate       | %s\n", format.Percent(result.LoanRate, 4))
		_, _ = fmt.Fprintf(w, "  First installment   | %s\n", format.Currency(s.FirstInstallment))
		_, _ = fmt.Fprintf(w, "  Last installment    | %s\n", format.Currency(s.LastInstallment))
		_, _ = fmt.Fprintf(w, "  Total paid          | %s\n", format.Currency(result.TotalOutlay()))
		_, _ = fmt.Fprintf(w, "  Total interest      | %s\n", format.Currency(c.TotalInterest))
		_, _ = fmt.Fprintf(w, "  Buyer equity        | %s\n", format.Currency(c.BuyerEquity))
		_, _ = fmt.Fprintf(w, "Investing\n")
		_, _ = fmt.Fprintf(w, "  Initial capital     | %s\n", format.Currency(result.DownPayment))
		_, _ = fmt.Fprintf(w, "  Periodic rate       | %s\n", format.Percent(result.InvestRate, 4))
		_, _ = fmt.Fprintf(w, "  Total contributed   | %s\n", format.Currency(c.TotalContributed))
		_, _ = fmt.Fprintf(w, "  Earnings            | %s\n", format.Currency(c.InvestmentEarnings))
		_, _ = fmt.Fprintf(w, "  Investor equity     | %s\n", format.Currency(c.InvestorEquity))

		if c.Winner == comparison.Investor {
			_, _ = p.Fprintf(w, "Investing ends ahead by %s over the same %d months.\n", format.Currency(c.EquityDelta), s.TermPeriods)
		} else {
			_, _ = p.Fprintf(w, "Buying ends ahead by %s over the same %d months.\n", format.Currency(c.EquityDelta), s.TermPeriods)
		}

		for _, finding := range result.Findings {
			_, _ = fmt.Fprintf(w, "  audit %s\n", finding)
		}

		rows := s.Periods()
		if maxRows > 0 && len(rows) > maxRows {
			rows = rows[:maxRows]
		}
		if len(rows) > 0 {
			_, _ = fmt.Fprintf(w, "Period | Installment | Interest | Principal | Balance\n")
			_, _ = fmt.Fprintf(w, "______ | ___________ | ________ | _________ | _______\n")
			for _, row := range rows {
				_, _ = p.Fprintf(w, "%d | %s | %s | %s | %s\n", row.Number,
					format.Currency(row.Installment), format.Currency(row.Interest),
					format.Currency(row.Principal), format.Currency(row.RemainingBalance))
			}
			if len(rows) < s.TermPeriods {
				_, _ = p.Fprintf(w, "... %d more periods\n", s.TermPeriods-len(rows))
			}
		}

		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes one comma-separated row per scenario period.
func CsvFormat(w io.Writer, results []scenario.Result) error {
	writer := csv.NewWriter(w)
	header := []string{"scenario", "method", "period", "installment", "interest", "principal", "remaining balance", "investment balance"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		for k, row := range result.Schedule.Periods() {
			investmentBalance := ""
			if k < len(result.Series.Balances) {
				investmentBalance = result.Series.Balances[k].StringFixed(constants.DisplayScale)
			}
			record := []string{
				result.Name,
				result.Method.String(),
				strconv.Itoa(row.Number),
				row.Installment.StringFixed(constants.DisplayScale),
				row.Interest.StringFixed(constants.DisplayScale),
				row.Principal.StringFixed(constants.DisplayScale),
				row.RemainingBalance.StringFixed(constants.DisplayScale),
				investmentBalance,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV report as a string.
func CsvString(results []scenario.Result) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return "", fmt.Errorf("failed to write CSV report: %w", err)
	}
	return buf.String(), nil
}
