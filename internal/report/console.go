// Package report renders simulation run reports to the console and to files.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/stocksim/internal/simulation"
)

// Console renders a run report as tables on a writer.
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Print renders the comparison table, the per-symbol winners, and any
// skipped symbols.
func (c *Console) Print(report *simulation.RunReport) {
	rows := simulation.Summarize(report)

	fmt.Fprintf(c.out, "\nSimulation %s: %d symbols, %d skipped, %s\n",
		report.RunID, len(report.Runs), len(report.Skipped), report.Duration.Round(time.Millisecond))
	fmt.Fprintf(c.out, "Window %s to %s, initial capital %s\n\n",
		report.Config.StartDate.Format("2006-01-02"),
		report.Config.EndDate.Format("2006-01-02"),
		formatMoney(report.Config.InitialCapital))

	table := tablewriter.NewWriter(c.out)
	table.Header("Symbol", "Strategy", "Final Value", "Return", "CAGR", "Max DD", "Sharpe", "Trades", "Win Rate")
	for _, row := range rows {
		table.Append(
			row.Symbol,
			row.Strategy,
			formatMoney(row.FinalValue),
			formatPercent(row.TotalReturn),
			formatPercent(row.CAGR),
			formatPercent(row.MaxDrawdown),
			fmt.Sprintf("%.2f", row.SharpeRatio),
			fmt.Sprintf("%d", row.Trades),
			formatPercent(row.WinRate),
		)
	}
	table.Render()

	c.printWinners(report)
	c.printSkipped(report)
}

func (c *Console) printWinners(report *simulation.RunReport) {
	best := simulation.BestBySymbol(report)
	if len(best) == 0 {
		return
	}

	fmt.Fprintln(c.out, "\nBest strategy per symbol:")
	table := tablewriter.NewWriter(c.out)
	table.Header("Symbol", "Strategy", "Final Value", "Return")
	for _, run := range report.Runs {
		row, ok := best[run.Symbol]
		if !ok {
			continue
		}
		table.Append(row.Symbol, row.Strategy, formatMoney(row.FinalValue), formatPercent(row.TotalReturn))
	}
	table.Render()
}

func (c *Console) printSkipped(report *simulation.RunReport) {
	if len(report.Skipped) == 0 {
		return
	}
	fmt.Fprintln(c.out, "\nSkipped symbols:")
	for _, s := range report.Skipped {
		fmt.Fprintf(c.out, "  %s: %v\n", s.Symbol, s.Reason)
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
