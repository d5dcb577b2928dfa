package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stocksim/internal/datasource"
	"github.com/yourusername/stocksim/internal/logger"
	"github.com/yourusername/stocksim/internal/models"
	"github.com/yourusername/stocksim/internal/simulation"
)

type fixedSource struct {
	series map[string]*models.PriceSeries
}

func (s *fixedSource) Name() string    { return "fixed" }
func (s *fixedSource) IsEnabled() bool { return true }
func (s *fixedSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	series, ok := s.series[symbol]
	if !ok {
		return nil, models.ErrDataUnavailable
	}
	return series, nil
}

func sampleReport(t *testing.T) *simulation.RunReport {
	t.Helper()
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	mk := func(symbol string, closes ...float64) *models.PriceSeries {
		points := make([]models.PricePoint, len(closes))
		for i, c := range closes {
			points[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Close: c}
		}
		series, err := models.NewPriceSeries(symbol, points)
		require.NoError(t, err)
		return series
	}

	src := &fixedSource{series: map[string]*models.PriceSeries{
		"AAA.JK": mk("AAA.JK", 10, 12, 8, 15),
		"BBB.JK": mk("BBB.JK", 20, 19, 18, 17),
	}}

	cfg := simulation.Config{
		Symbols:        []string{"AAA.JK", "BBB.JK", "GONE.JK"},
		StartDate:      base,
		EndDate:        base.AddDate(0, 0, 3),
		InitialCapital: 10_000_000,
		SMAWindow:      2,
	}

	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)

	engine, err := simulation.NewEngine(cfg, []datasource.Source{src},
		simulation.DefaultStrategies(2), logger.NewRunLogger(quiet))
	require.NoError(t, err)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestConsolePrint(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	NewConsole(&buf).Print(report)
	out := buf.String()

	assert.Contains(t, out, "AAA.JK")
	assert.Contains(t, out, "BBB.JK")
	assert.Contains(t, out, "greedy")
	assert.Contains(t, out, "dynamic_programming")
	assert.Contains(t, out, "Best strategy per symbol")
	assert.Contains(t, out, "Skipped symbols")
	assert.Contains(t, out, "GONE.JK")
}

func TestCSVWriterSummaryAndCurves(t *testing.T) {
	report := sampleReport(t)
	dir := filepath.Join(t.TempDir(), "out")

	w := NewCSVWriter(dir, true)
	require.NoError(t, w.Write(report))

	f, err := os.Open(filepath.Join(dir, "simulation_summary.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7) // header + 2 symbols * 3 strategies
	assert.Equal(t, "symbol", records[0][0])

	// rows sorted by return descending: best row first
	assert.Equal(t, "AAA.JK", records[1][0])
	assert.Equal(t, "dynamic_programming", records[1][1])

	curve := filepath.Join(dir, "AAA.JK_greedy_equity.csv")
	data, err := os.ReadFile(curve)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date,value,drawdown")
}

func TestCSVWriterRecreatesDir(t *testing.T) {
	report := sampleReport(t)
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "stale.csv")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	w := NewCSVWriter(dir, false)
	require.NoError(t, w.Write(report))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "simulation_summary.csv"))
	assert.NoError(t, err)
}

func TestHTMLWriterPages(t *testing.T) {
	report := sampleReport(t)
	dir := filepath.Join(t.TempDir(), "html")

	w := NewHTMLWriter(dir)
	require.NoError(t, w.Write(report))

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "AAA.JK.html")
	assert.Contains(t, string(index), "GONE.JK")
	assert.Contains(t, string(index), "Strategy comparison")
	assert.Contains(t, string(index), "<svg")

	page, err := os.ReadFile(filepath.Join(dir, "AAA.JK.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<svg")
	assert.Contains(t, string(page), "dynamic_programming")
	assert.Contains(t, string(page), "Total Return")
}

func TestLineChartDegenerateInputs(t *testing.T) {
	assert.Contains(t, lineChart([]float64{5}, "#000"), "not enough data")
	flat := lineChart([]float64{5, 5, 5}, "#000")
	assert.Contains(t, flat, "<svg")
}
