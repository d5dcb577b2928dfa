package simulation

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stocksim/internal/datasource"
	"github.com/yourusername/stocksim/internal/logger"
	"github.com/yourusername/stocksim/internal/models"
	"github.com/yourusername/stocksim/internal/strategy"
)

// stubSource serves canned series per symbol.
type stubSource struct {
	series map[string]*models.PriceSeries
}

func (s *stubSource) Name() string    { return "stub" }
func (s *stubSource) IsEnabled() bool { return true }
func (s *stubSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	series, ok := s.series[symbol]
	if !ok {
		return nil, models.ErrDataUnavailable
	}
	return series, nil
}

func testRunLogger() *logger.RunLogger {
	base := logrus.New()
	base.SetLevel(logrus.PanicLevel)
	return logger.NewRunLogger(base)
}

func seriesOf(t *testing.T, symbol string, closes ...float64) *models.PriceSeries {
	t.Helper()
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Close: c}
	}
	series, err := models.NewPriceSeries(symbol, points)
	require.NoError(t, err)
	return series
}

func testConfig(symbols ...string) Config {
	return Config{
		Symbols:        symbols,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		InitialCapital: 10_000_000,
		SMAWindow:      5,
	}
}

func TestEngineRunsAllStrategiesPerSymbol(t *testing.T) {
	src := &stubSource{series: map[string]*models.PriceSeries{
		"AAA": seriesOf(t, "AAA", 10, 12, 8, 15),
		"BBB": seriesOf(t, "BBB", 50, 49, 48, 47),
	}}

	engine, err := NewEngine(testConfig("AAA", "BBB"), []datasource.Source{src},
		DefaultStrategies(2), testRunLogger())
	require.NoError(t, err)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Runs, 2)
	assert.Empty(t, report.Skipped)
	assert.NotEmpty(t, report.RunID)
	for _, run := range report.Runs {
		require.Len(t, run.Outcomes, 3)
		for _, outcome := range run.Outcomes {
			assert.Equal(t, run.Symbol, outcome.Result.Symbol)
			assert.Len(t, outcome.Curve, run.Series.Len())
			assert.Greater(t, outcome.Result.FinalValue, 0.0)
		}
	}
}

func TestEngineSkipsUnavailableSymbols(t *testing.T) {
	src := &stubSource{series: map[string]*models.PriceSeries{
		"AAA": seriesOf(t, "AAA", 10, 11, 12),
	}}

	engine, err := NewEngine(testConfig("AAA", "GONE"), []datasource.Source{src},
		DefaultStrategies(2), testRunLogger())
	require.NoError(t, err)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Runs, 1)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "GONE", report.Skipped[0].Symbol)
	assert.ErrorIs(t, report.Skipped[0].Reason, models.ErrDataUnavailable)
}

func TestEngineFallsBackAcrossSources(t *testing.T) {
	empty := &stubSource{series: map[string]*models.PriceSeries{}}
	full := &stubSource{series: map[string]*models.PriceSeries{
		"AAA": seriesOf(t, "AAA", 10, 11),
	}}

	engine, err := NewEngine(testConfig("AAA"), []datasource.Source{empty, full},
		DefaultStrategies(2), testRunLogger())
	require.NoError(t, err)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)
}

func TestEngineEmptySeriesIsZeroActivity(t *testing.T) {
	empty, err := models.NewPriceSeries("EMPTY", nil)
	require.NoError(t, err)
	src := &stubSource{series: map[string]*models.PriceSeries{"EMPTY": empty}}

	engine, err := NewEngine(testConfig("EMPTY"), []datasource.Source{src},
		DefaultStrategies(2), testRunLogger())
	require.NoError(t, err)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Runs, 1)
	assert.Empty(t, report.Skipped)
	for _, outcome := range report.Runs[0].Outcomes {
		assert.Equal(t, 10_000_000.0, outcome.Result.FinalValue)
		assert.Zero(t, outcome.Result.TradeCount())
	}
}

func TestEngineCancelledContext(t *testing.T) {
	src := &stubSource{series: map[string]*models.PriceSeries{
		"AAA": seriesOf(t, "AAA", 10, 11),
	}}
	engine, err := NewEngine(testConfig("AAA"), []datasource.Source{src},
		DefaultStrategies(2), testRunLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func runSingle(t *testing.T, strat strategy.Strategy, series *models.PriceSeries, capital float64) *models.SimulationResult {
	t.Helper()
	decisions, err := strat.Decide(context.Background(), series)
	require.NoError(t, err)
	ledger, err := NewLedger(capital)
	require.NoError(t, err)
	result, _, err := ledger.Run(series, strat.Name(), decisions)
	require.NoError(t, err)
	return result
}

func TestOptimizerNeverTrailsGreedy(t *testing.T) {
	cases := map[string][]float64{
		"example":    {10, 12, 8, 15},
		"increasing": {1, 2, 3, 4, 5},
		"decreasing": {5, 4, 3, 2, 1},
		"flat":       {7, 7, 7, 7},
		"sawtooth":   {10, 5, 10, 5, 10},
		"single":     {42},
	}
	for name, closes := range cases {
		t.Run(name, func(t *testing.T) {
			series := seriesOf(t, "SYM", closes...)
			greedy := runSingle(t, strategy.NewGreedy(), series, 10_000_000)
			optimal := runSingle(t, strategy.NewDynamicProgramming(), series, 10_000_000)
			assert.GreaterOrEqual(t, optimal.FinalValue, greedy.FinalValue-1e-6)
		})
	}
}

func TestOptimizerNeverTrailsGreedyRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(40)
		closes := make([]float64, n)
		price := 100.0
		for i := range closes {
			price *= 1 + (rng.Float64()-0.5)*0.1
			closes[i] = price
		}
		series := seriesOf(t, "RND", closes...)

		greedy := runSingle(t, strategy.NewGreedy(), series, 10_000_000)
		optimal := runSingle(t, strategy.NewDynamicProgramming(), series, 10_000_000)
		require.GreaterOrEqual(t, optimal.FinalValue, greedy.FinalValue-1e-3,
			"trial %d closes %v", trial, closes)
	}
}

func TestKnownExampleOutcome(t *testing.T) {
	// 10 -> 12 sell, rebuy at 8, sell at 15: capital multiplies by 1.2 * 15/8
	series := seriesOf(t, "SYM", 10, 12, 8, 15)
	result := runSingle(t, strategy.NewDynamicProgramming(), series, 1000)
	assert.InDelta(t, 2250.0, result.FinalValue, 1e-9)
	assert.Equal(t, 2, result.RoundTrips())
}

func TestDecreasingMarketKeepsCapital(t *testing.T) {
	series := seriesOf(t, "SYM", 9, 8, 7, 6)
	for _, strat := range []strategy.Strategy{strategy.NewGreedy(), strategy.NewDynamicProgramming()} {
		result := runSingle(t, strat, series, 5000)
		assert.Equal(t, 5000.0, result.FinalValue, strat.Name())
		assert.Zero(t, result.TradeCount(), strat.Name())
	}
}

func TestSummarizeSortsByReturnDescending(t *testing.T) {
	src := &stubSource{series: map[string]*models.PriceSeries{
		"UP":   seriesOf(t, "UP", 10, 20),
		"DOWN": seriesOf(t, "DOWN", 20, 10),
	}}
	engine, err := NewEngine(testConfig("UP", "DOWN"), []datasource.Source{src},
		DefaultStrategies(2), testRunLogger())
	require.NoError(t, err)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	rows := Summarize(report)
	require.Len(t, rows, 6)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].TotalReturn, rows[i].TotalReturn)
	}
	assert.Equal(t, "UP", rows[0].Symbol)

	best := BestBySymbol(report)
	assert.Equal(t, 1.0, best["UP"].TotalReturn)
	assert.Equal(t, 0.0, best["DOWN"].TotalReturn)
}

func TestLedgerRejectsInvalidSequences(t *testing.T) {
	series := seriesOf(t, "SYM", 10, 11, 12)
	ledger, err := NewLedger(1000)
	require.NoError(t, err)

	mk := func(actions ...models.Action) []models.Decision {
		decisions := make([]models.Decision, len(actions))
		for i, a := range actions {
			decisions[i] = models.Decision{Index: i, Date: series.Points[i].Date, Action: a}
		}
		return decisions
	}

	_, _, err = ledger.Run(series, "bad", mk(models.ActionSell, models.ActionHold, models.ActionHold))
	assert.Error(t, err)

	_, _, err = ledger.Run(series, "bad", mk(models.ActionBuy, models.ActionBuy, models.ActionSell))
	assert.Error(t, err)

	_, _, err = ledger.Run(series, "bad", mk(models.ActionBuy, models.ActionHold, models.ActionHold))
	assert.Error(t, err, "open position at end")

	_, _, err = ledger.Run(series, "bad", mk(models.ActionBuy, models.ActionSell))
	assert.Error(t, err, "length mismatch")
}

func TestMetricsOnWinningRun(t *testing.T) {
	series := seriesOf(t, "SYM", 10, 12, 8, 15)
	decisions, err := strategy.NewDynamicProgramming().Decide(context.Background(), series)
	require.NoError(t, err)

	ledger, err := NewLedger(1000)
	require.NoError(t, err)
	result, curve, err := ledger.Run(series, "dynamic_programming", decisions)
	require.NoError(t, err)

	m := CalculateMetrics(result, curve)
	assert.InDelta(t, 1.25, m.TotalReturn, 1e-9)
	assert.Equal(t, 4, m.TradeCount)
	assert.Equal(t, 2, m.RoundTrips)
	assert.Equal(t, 2, m.WinningTrips)
	assert.Equal(t, 1.0, m.WinRate)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.Equal(t, 4, m.TradingDays)
}
