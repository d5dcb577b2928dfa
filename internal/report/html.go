package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/stocksim/internal/simulation"
)

// HTMLWriter writes one HTML page per symbol with an inline SVG chart of
// each strategy's equity curve over the price history.
type HTMLWriter struct {
	dir string
}

// NewHTMLWriter creates an HTML report writer rooted at dir.
func NewHTMLWriter(dir string) *HTMLWriter {
	return &HTMLWriter{dir: dir}
}

// Write emits <symbol>.html per simulated symbol plus an index page.
func (w *HTMLWriter) Write(report *simulation.RunReport) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	for _, run := range report.Runs {
		page := w.symbolPage(report, run)
		path := filepath.Join(w.dir, sanitize(run.Symbol)+".html")
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			return err
		}
	}
	return os.WriteFile(filepath.Join(w.dir, "index.html"), []byte(w.indexPage(report)), 0o644)
}

func (w *HTMLWriter) indexPage(report *simulation.RunReport) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Simulation Report</title></head>\n<body>\n")
	b.WriteString(fmt.Sprintf("<h1>Simulation %s</h1>\n", report.RunID))
	b.WriteString(fmt.Sprintf("<p><strong>Window:</strong> %s to %s</p>\n",
		report.Config.StartDate.Format("2006-01-02"), report.Config.EndDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("<p><strong>Initial Capital:</strong> %.2f</p>\n", report.Config.InitialCapital))

	b.WriteString("<table border=\"1\" cellpadding=\"4\">\n<tr><th>Symbol</th><th>Strategy</th><th>Final Value</th><th>Return</th><th>Max Drawdown</th><th>Trades</th></tr>\n")
	for _, row := range simulation.Summarize(report) {
		b.WriteString(fmt.Sprintf("<tr><td><a href=\"%s.html\">%s</a></td><td>%s</td><td>%.2f</td><td>%.2f%%</td><td>%.2f%%</td><td>%d</td></tr>\n",
			sanitize(row.Symbol), row.Symbol, row.Strategy, row.FinalValue,
			row.TotalReturn*100, row.MaxDrawdown*100, row.Trades))
	}
	b.WriteString("</table>\n")

	b.WriteString("<h2>Strategy comparison</h2>\n")
	b.WriteString("<p>Equity curves normalized to initial capital.</p>\n")
	b.WriteString(comparisonChart(report))

	if len(report.Skipped) > 0 {
		b.WriteString("<h2>Skipped</h2>\n<ul>\n")
		for _, s := range report.Skipped {
			b.WriteString(fmt.Sprintf("<li>%s: %v</li>\n", s.Symbol, s.Reason))
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func (w *HTMLWriter) symbolPage(report *simulation.RunReport, run simulation.SymbolRun) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>")
	b.WriteString(run.Symbol)
	b.WriteString("</title></head>\n<body>\n")
	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", run.Symbol))
	b.WriteString(fmt.Sprintf("<p><strong>Trading days:</strong> %d (source: %s)</p>\n", run.Series.Len(), run.Source))

	b.WriteString("<h2>Price</h2>\n")
	b.WriteString(lineChart(run.Series.Closes(), "#555"))

	for _, outcome := range run.Outcomes {
		b.WriteString(fmt.Sprintf("<h2>%s</h2>\n", outcome.Result.Strategy))
		b.WriteString(fmt.Sprintf("<p><strong>Final Value:</strong> %.2f</p>\n", outcome.Result.FinalValue))
		b.WriteString(fmt.Sprintf("<p><strong>Total Return:</strong> %.2f%%</p>\n", outcome.Metrics.TotalReturn*100))
		b.WriteString(fmt.Sprintf("<p><strong>CAGR:</strong> %.2f%%</p>\n", outcome.Metrics.CAGR*100))
		b.WriteString(fmt.Sprintf("<p><strong>Max Drawdown:</strong> %.2f%%</p>\n", outcome.Metrics.MaxDrawdown*100))
		b.WriteString(fmt.Sprintf("<p><strong>Sharpe Ratio:</strong> %.2f</p>\n", outcome.Metrics.SharpeRatio))
		b.WriteString(fmt.Sprintf("<p><strong>Trades:</strong> %d (%d round trips, win rate %.0f%%)</p>\n",
			outcome.Metrics.TradeCount, outcome.Metrics.RoundTrips, outcome.Metrics.WinRate*100))

		values := make([]float64, len(outcome.Curve))
		for i, p := range outcome.Curve {
			values[i] = p.Value
		}
		b.WriteString(lineChart(values, "#2a6"))
	}

	b.WriteString("<p><a href=\"index.html\">Back to index</a></p>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

const (
	chartWidth  = 720
	chartHeight = 200
	chartPad    = 10
)

// comparisonChart overlays every outcome's normalized equity curve in one
// SVG, with a legend below.
func comparisonChart(report *simulation.RunReport) string {
	palette := []string{"#c33", "#36c", "#2a6", "#a3c", "#c93", "#399"}
	initial := report.Config.InitialCapital
	if initial <= 0 {
		initial = 1
	}

	type labeled struct {
		label  string
		values []float64
	}
	var curves []labeled
	min, max := 1.0, 1.0
	for _, run := range report.Runs {
		for _, outcome := range run.Outcomes {
			if len(outcome.Curve) < 2 {
				continue
			}
			values := make([]float64, len(outcome.Curve))
			for i, p := range outcome.Curve {
				values[i] = p.Value / initial
				if values[i] < min {
					min = values[i]
				}
				if values[i] > max {
					max = values[i]
				}
			}
			curves = append(curves, labeled{
				label:  run.Symbol + " / " + outcome.Result.Strategy,
				values: values,
			})
		}
	}
	if len(curves) == 0 {
		return "<p>not enough data to chart</p>\n"
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" style="background:#fafafa;border:1px solid #ddd">
`, chartWidth, chartHeight, chartWidth, chartHeight)
	for ci, c := range curves {
		color := palette[ci%len(palette)]
		var points strings.Builder
		for i, v := range c.values {
			x := chartPad + float64(i)/float64(len(c.values)-1)*(chartWidth-2*chartPad)
			y := chartHeight - chartPad - (v-min)/span*(chartHeight-2*chartPad)
			if i > 0 {
				points.WriteByte(' ')
			}
			fmt.Fprintf(&points, "%.1f,%.1f", x, y)
		}
		fmt.Fprintf(&b, `<polyline fill="none" stroke="%s" stroke-width="1.2" points="%s"/>
`, color, points.String())
	}
	b.WriteString("</svg>\n<p>")
	for ci, c := range curves {
		if ci > 0 {
			b.WriteString(" &middot; ")
		}
		fmt.Fprintf(&b, `<span style="color:%s">&#9632;</span> %s`, palette[ci%len(palette)], c.label)
	}
	b.WriteString("</p>\n")
	return b.String()
}

// lineChart renders a series as a fixed-size inline SVG polyline, scaled to
// its own min/max.
func lineChart(values []float64, color string) string {
	if len(values) < 2 {
		return "<p>not enough data to chart</p>\n"
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	var points strings.Builder
	for i, v := range values {
		x := chartPad + float64(i)/float64(len(values)-1)*(chartWidth-2*chartPad)
		y := chartHeight - chartPad - (v-min)/span*(chartHeight-2*chartPad)
		if i > 0 {
			points.WriteByte(' ')
		}
		fmt.Fprintf(&points, "%.1f,%.1f", x, y)
	}

	return fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" style="background:#fafafa;border:1px solid #ddd">
<polyline fill="none" stroke="%s" stroke-width="1.5" points="%s"/>
</svg>
`, chartWidth, chartHeight, chartWidth, chartHeight, color, points.String())
}
