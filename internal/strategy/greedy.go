package strategy

import (
	"context"

	"github.com/yourusername/stocksim/internal/models"
)

// Greedy implements the local one-step rule: buy when tomorrow's price is
// higher than today's, sell when it is lower. It looks exactly one day ahead
// and never reconsiders a past decision.
type Greedy struct{}

// NewGreedy creates a new greedy decision procedure.
func NewGreedy() *Greedy {
	return &Greedy{}
}

// Name returns the strategy name
func (g *Greedy) Name() string {
	return "greedy"
}

// Parameters returns the strategy parameters
func (g *Greedy) Parameters() map[string]interface{} {
	return map[string]interface{}{"lookahead_days": 1}
}

// Decide produces one decision per day. The position ends flat: an open
// position is liquidated on the last day so results are comparable across
// strategies. A series of length 0 or 1 yields no trades.
func (g *Greedy) Decide(ctx context.Context, series *models.PriceSeries) ([]models.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := series.Len()
	if n < 2 {
		return holdAll(series), nil
	}

	decisions := make([]models.Decision, 0, n)
	position := models.PositionFlat

	for i := 0; i < n; i++ {
		action := models.ActionHold
		switch {
		case i == n-1:
			if position == models.PositionHolding {
				action = models.ActionSell
			}
		case position == models.PositionFlat && series.Points[i+1].Close > series.Points[i].Close:
			action = models.ActionBuy
		case position == models.PositionHolding && series.Points[i+1].Close < series.Points[i].Close:
			action = models.ActionSell
		}
		position = position.Apply(action)
		decisions = append(decisions, decisionAt(series, i, action))
	}

	return decisions, nil
}
