package strategy

import (
	"context"

	"github.com/yourusername/stocksim/internal/models"
)

// DynamicProgramming finds the profit-maximal decision sequence for a price
// series under the shared execution model: two states per day (flat or
// holding), all-in buys and all-out sells, fully divisible capital, cost-free
// trades, unlimited transactions.
//
// The tabulation tracks capital multipliers rather than absolute values, so
// the optimal path is independent of initial capital:
//
//	flat[i] = max(flat[i-1], hold[i-1]*p[i])   // stay flat, or sell today
//	hold[i] = max(hold[i-1], flat[i-1]/p[i])   // keep holding, or buy today
//
// flat[i] is cash per unit of initial capital, hold[i] is shares per unit of
// initial capital. The terminal state is forced flat, so the answer is
// flat[n-1]. One pass per state, O(n) time, O(n) space for path recovery.
type DynamicProgramming struct{}

// NewDynamicProgramming creates a new DP decision procedure.
func NewDynamicProgramming() *DynamicProgramming {
	return &DynamicProgramming{}
}

// Name returns the strategy name
func (d *DynamicProgramming) Name() string {
	return "dynamic_programming"
}

// Parameters returns the strategy parameters
func (d *DynamicProgramming) Parameters() map[string]interface{} {
	return map[string]interface{}{"states": 2, "transactions": "unlimited"}
}

// Decide tabulates the value function forward and backtracks the optimal
// decision path. Switching states requires a strict improvement, so flat
// stretches never produce zero-profit churn: a strictly decreasing series
// yields no trades.
func (d *DynamicProgramming) Decide(ctx context.Context, series *models.PriceSeries) ([]models.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := series.Len()
	if n < 2 {
		return holdAll(series), nil
	}

	prices := series.Closes()

	flat := make([]float64, n)
	hold := make([]float64, n)
	// soldAt[i]: flat[i] was reached by selling at i.
	// boughtAt[i]: hold[i] was reached by buying at i.
	soldAt := make([]bool, n)
	boughtAt := make([]bool, n)

	flat[0] = 1.0
	hold[0] = 1.0 / prices[0]
	boughtAt[0] = true

	for i := 1; i < n; i++ {
		flat[i] = flat[i-1]
		if sell := hold[i-1] * prices[i]; sell > flat[i] {
			flat[i] = sell
			soldAt[i] = true
		}
		hold[i] = hold[i-1]
		if buy := flat[i-1] / prices[i]; buy > hold[i] {
			hold[i] = buy
			boughtAt[i] = true
		}
	}

	// Backtrack from the forced-flat terminal state.
	actions := make([]models.Action, n)
	state := models.PositionFlat
	for i := n - 1; i >= 0; i-- {
		if state == models.PositionFlat {
			if soldAt[i] {
				actions[i] = models.ActionSell
				state = models.PositionHolding
			}
			continue
		}
		if boughtAt[i] {
			actions[i] = models.ActionBuy
			state = models.PositionFlat
		}
	}

	decisions := make([]models.Decision, n)
	for i, action := range actions {
		decisions[i] = decisionAt(series, i, action)
	}
	return decisions, nil
}
