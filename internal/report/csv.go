package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yourusername/stocksim/internal/simulation"
)

// CSVWriter writes the run summary and per-outcome equity curves to a
// directory. The directory is recreated on every run.
type CSVWriter struct {
	dir          string
	equityCurves bool
}

// NewCSVWriter creates a CSV report writer rooted at dir.
func NewCSVWriter(dir string, equityCurves bool) *CSVWriter {
	return &CSVWriter{dir: dir, equityCurves: equityCurves}
}

// Write emits simulation_summary.csv plus, when enabled, one
// <symbol>_<strategy>_equity.csv per outcome.
func (w *CSVWriter) Write(report *simulation.RunReport) error {
	if err := recreateDir(w.dir); err != nil {
		return err
	}
	if err := w.writeSummary(report); err != nil {
		return err
	}
	if !w.equityCurves {
		return nil
	}
	for _, run := range report.Runs {
		for _, outcome := range run.Outcomes {
			name := fmt.Sprintf("%s_%s_equity.csv", sanitize(run.Symbol), outcome.Result.Strategy)
			path := filepath.Join(w.dir, name)
			if err := os.WriteFile(path, []byte(outcome.Curve.ToCSV()), 0o644); err != nil {
				return fmt.Errorf("writing equity curve %s: %w", name, err)
			}
		}
	}
	return nil
}

func (w *CSVWriter) writeSummary(report *simulation.RunReport) error {
	path := filepath.Join(w.dir, "simulation_summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"symbol", "strategy", "initial_capital", "final_value", "total_return", "cagr", "max_drawdown", "sharpe_ratio", "trades", "round_trips", "win_rate", "trading_days"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range simulation.Summarize(report) {
		record := []string{
			row.Symbol,
			row.Strategy,
			formatFloat(report.Config.InitialCapital),
			formatFloat(row.FinalValue),
			formatFloat(row.TotalReturn),
			formatFloat(row.CAGR),
			formatFloat(row.MaxDrawdown),
			formatFloat(row.SharpeRatio),
			strconv.Itoa(row.Trades),
			strconv.Itoa(row.RoundTrips),
			formatFloat(row.WinRate),
			strconv.Itoa(row.TradingDays),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// recreateDir wipes and recreates an output directory so stale files from a
// previous run never survive.
func recreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

func sanitize(symbol string) string {
	out := make([]rune, 0, len(symbol))
	for _, r := range symbol {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
