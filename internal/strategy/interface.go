package strategy

import (
	"context"

	"github.com/yourusername/stocksim/internal/models"
)

// Strategy defines the interface for trading-decision procedures. A strategy
// maps a price series to one decision per day. Implementations must be
// deterministic and side-effect free: running Decide twice on the same series
// yields identical decisions.
type Strategy interface {
	Name() string
	Decide(ctx context.Context, series *models.PriceSeries) ([]models.Decision, error)
	Parameters() map[string]interface{}
}

// decisionAt builds a decision for the series index.
func decisionAt(series *models.PriceSeries, i int, action models.Action) models.Decision {
	return models.Decision{
		Index:  i,
		Date:   series.Points[i].Date,
		Action: action,
	}
}

// holdAll returns a decision sequence with no trades, used for series too
// short to trade on.
func holdAll(series *models.PriceSeries) []models.Decision {
	decisions := make([]models.Decision, series.Len())
	for i := range decisions {
		decisions[i] = decisionAt(series, i, models.ActionHold)
	}
	return decisions
}
