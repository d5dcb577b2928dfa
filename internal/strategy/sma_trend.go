package strategy

import (
	"context"
	"fmt"

	"github.com/yourusername/stocksim/internal/models"
)

// DefaultSMAWindow is the moving-average window used when none is configured.
const DefaultSMAWindow = 5

// SMATrend is a trend-following rule: buy when the price closes above its
// simple moving average, sell when it closes below. Days before the window is
// full are holds.
type SMATrend struct {
	Window int
}

// NewSMATrend creates an SMA trend strategy with the given window.
func NewSMATrend(window int) *SMATrend {
	if window < 2 {
		window = DefaultSMAWindow
	}
	return &SMATrend{Window: window}
}

// Name returns the strategy name
func (s *SMATrend) Name() string {
	return fmt.Sprintf("sma_trend_%d", s.Window)
}

// Parameters returns the strategy parameters
func (s *SMATrend) Parameters() map[string]interface{} {
	return map[string]interface{}{"sma_window": s.Window}
}

// Decide produces one decision per day, liquidating any open position on the
// last day.
func (s *SMATrend) Decide(ctx context.Context, series *models.PriceSeries) ([]models.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := series.Len()
	if n < 2 {
		return holdAll(series), nil
	}

	sma := series.SMA(s.Window)
	decisions := make([]models.Decision, 0, n)
	position := models.PositionFlat

	for i := 0; i < n; i++ {
		action := models.ActionHold
		switch {
		case i == n-1:
			if position == models.PositionHolding {
				action = models.ActionSell
			}
		case !models.HasSMA(i, s.Window):
			// warm-up period
		case position == models.PositionFlat && series.Points[i].Close > sma[i]:
			action = models.ActionBuy
		case position == models.PositionHolding && series.Points[i].Close < sma[i]:
			action = models.ActionSell
		}
		position = position.Apply(action)
		decisions = append(decisions, decisionAt(series, i, action))
	}

	return decisions, nil
}
