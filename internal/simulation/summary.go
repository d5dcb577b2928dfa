package simulation

import (
	"sort"
)

// SummaryRow is one line of the cross-symbol comparison table.
type SummaryRow struct {
	Symbol      string
	Strategy    string
	FinalValue  float64
	TotalReturn float64
	CAGR        float64
	MaxDrawdown float64
	SharpeRatio float64
	Trades      int
	RoundTrips  int
	WinRate     float64
	TradingDays int
}

// Summarize flattens a run report into rows sorted by total return,
// best first, with symbol then strategy as tie breakers.
func Summarize(report *RunReport) []SummaryRow {
	rows := make([]SummaryRow, 0, len(report.Runs)*3)
	for _, run := range report.Runs {
		for _, outcome := range run.Outcomes {
			rows = append(rows, SummaryRow{
				Symbol:      run.Symbol,
				Strategy:    outcome.Result.Strategy,
				FinalValue:  outcome.Result.FinalValue,
				TotalReturn: outcome.Metrics.TotalReturn,
				CAGR:        outcome.Metrics.CAGR,
				MaxDrawdown: outcome.Metrics.MaxDrawdown,
				SharpeRatio: outcome.Metrics.SharpeRatio,
				Trades:      outcome.Metrics.TradeCount,
				RoundTrips:  outcome.Metrics.RoundTrips,
				WinRate:     outcome.Metrics.WinRate,
				TradingDays: outcome.Metrics.TradingDays,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalReturn != rows[j].TotalReturn {
			return rows[i].TotalReturn > rows[j].TotalReturn
		}
		if rows[i].Symbol != rows[j].Symbol {
			return rows[i].Symbol < rows[j].Symbol
		}
		return rows[i].Strategy < rows[j].Strategy
	})
	return rows
}

// BestBySymbol returns, per symbol, the strategy with the highest final value.
func BestBySymbol(report *RunReport) map[string]SummaryRow {
	best := make(map[string]SummaryRow, len(report.Runs))
	for _, row := range Summarize(report) {
		cur, ok := best[row.Symbol]
		if !ok || row.FinalValue > cur.FinalValue {
			best[row.Symbol] = row
		}
	}
	return best
}
