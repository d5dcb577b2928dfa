package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stocksim/internal/models"
)

func series(t *testing.T, closes ...float64) *models.PriceSeries {
	t.Helper()
	points := make([]models.PricePoint, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		points[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Close: c}
	}
	s, err := models.NewPriceSeries("TEST", points)
	require.NoError(t, err)
	return s
}

func actions(decisions []models.Decision) []models.Action {
	out := make([]models.Action, len(decisions))
	for i, d := range decisions {
		out[i] = d.Action
	}
	return out
}

func countAction(decisions []models.Decision, a models.Action) int {
	n := 0
	for _, d := range decisions {
		if d.Action == a {
			n++
		}
	}
	return n
}

func TestGreedyIncreasingSeries(t *testing.T) {
	s := series(t, 10, 11, 12, 13, 14)
	decisions, err := NewGreedy().Decide(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, []models.Action{
		models.ActionBuy, models.ActionHold, models.ActionHold, models.ActionHold, models.ActionSell,
	}, actions(decisions))
}

func TestGreedyDecreasingSeriesNoTrades(t *testing.T) {
	s := series(t, 14, 13, 12, 11, 10)
	decisions, err := NewGreedy().Decide(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 0, countAction(decisions, models.ActionBuy))
	assert.Equal(t, 0, countAction(decisions, models.ActionSell))
}

func TestGreedyExampleSeries(t *testing.T) {
	// Buys at 10, sells at 12, rebuys at 8, sells at 15.
	s := series(t, 10, 12, 8, 15)
	decisions, err := NewGreedy().Decide(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, []models.Action{
		models.ActionBuy, models.ActionSell, models.ActionBuy, models.ActionSell,
	}, actions(decisions))
}

func TestGreedyShortSeries(t *testing.T) {
	for _, closes := range [][]float64{{}, {42}} {
		s := &models.PriceSeries{Symbol: "TEST"}
		if len(closes) > 0 {
			s = series(t, closes...)
		}
		decisions, err := NewGreedy().Decide(context.Background(), s)
		require.NoError(t, err)
		assert.Len(t, decisions, len(closes))
		assert.Equal(t, 0, countAction(decisions, models.ActionBuy))
	}
}

func TestDPIncreasingSeries(t *testing.T) {
	s := series(t, 10, 11, 12, 13, 14)
	decisions, err := NewDynamicProgramming().Decide(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, []models.Action{
		models.ActionBuy, models.ActionHold, models.ActionHold, models.ActionHold, models.ActionSell,
	}, actions(decisions))
}

func TestDPDecreasingSeriesNoTrades(t *testing.T) {
	s := series(t, 14, 13, 12, 11, 10)
	decisions, err := NewDynamicProgramming().Decide(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 0, countAction(decisions, models.ActionBuy))
	assert.Equal(t, 0, countAction(decisions, models.ActionSell))
}

func TestDPExampleSeries(t *testing.T) {
	s := series(t, 10, 12, 8, 15)
	decisions, err := NewDynamicProgramming().Decide(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, []models.Action{
		models.ActionBuy, models.ActionSell, models.ActionBuy, models.ActionSell,
	}, actions(decisions))
}

func TestDPAlternatesValidly(t *testing.T) {
	// Every decision sequence must respect the flat/holding state machine
	// and end flat.
	cases := [][]float64{
		{10, 12, 8, 15},
		{5, 5, 5, 5},
		{3, 9, 1, 9, 1, 9},
		{100, 90, 95, 80, 120, 110, 130},
	}
	dp := NewDynamicProgramming()
	for _, closes := range cases {
		s := series(t, closes...)
		decisions, err := dp.Decide(context.Background(), s)
		require.NoError(t, err)

		position := models.PositionFlat
		for _, d := range decisions {
			if d.Action == models.ActionBuy {
				require.Equal(t, models.PositionFlat, position)
			}
			if d.Action == models.ActionSell {
				require.Equal(t, models.PositionHolding, position)
			}
			position = position.Apply(d.Action)
		}
		assert.Equal(t, models.PositionFlat, position)
	}
}

func TestSMATrendWarmupHolds(t *testing.T) {
	s := series(t, 10, 11, 12, 13, 14, 15)
	decisions, err := NewSMATrend(5).Decide(context.Background(), s)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.Equal(t, models.ActionHold, decisions[i].Action)
	}
	// Price above the full SMA on day 4, liquidate on the last day.
	assert.Equal(t, models.ActionBuy, decisions[4].Action)
	assert.Equal(t, models.ActionSell, decisions[5].Action)
}

func TestSMATrendDecreasingSeriesNoTrades(t *testing.T) {
	s := series(t, 15, 14, 13, 12, 11, 10)
	decisions, err := NewSMATrend(3).Decide(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 0, countAction(decisions, models.ActionBuy))
}

func TestDecideIsIdempotent(t *testing.T) {
	s := series(t, 10, 12, 8, 15, 9, 20, 18)
	strategies := []Strategy{NewGreedy(), NewDynamicProgramming(), NewSMATrend(3)}

	for _, strat := range strategies {
		first, err := strat.Decide(context.Background(), s)
		require.NoError(t, err)
		second, err := strat.Decide(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, first, second, strat.Name())
	}
}

func TestDecideCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGreedy().Decide(ctx, series(t, 1, 2, 3))
	assert.Error(t, err)
}
