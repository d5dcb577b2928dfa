package simulation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/stocksim/internal/models"
)

// Ledger executes a decision sequence against a price series. Buys invest all
// available cash, sells liquidate the whole position; capital is fully
// divisible and trades are cost-free. The ledger enforces the flat/holding
// state machine: a buy while holding or a sell while flat is rejected.
type Ledger struct {
	initialCapital float64
}

// NewLedger creates a ledger with the given initial capital.
func NewLedger(initialCapital float64) (*Ledger, error) {
	if initialCapital <= 0 {
		return nil, models.ErrInvalidCapital
	}
	return &Ledger{initialCapital: initialCapital}, nil
}

// Run applies decisions to the series day by day and returns the simulation
// result and the daily equity curve. The decision sequence must cover every
// day of the series.
func (l *Ledger) Run(series *models.PriceSeries, strategyName string, decisions []models.Decision) (*models.SimulationResult, EquityCurve, error) {
	if series.Len() != len(decisions) {
		return nil, nil, fmt.Errorf("ledger: %d decisions for %d price points", len(decisions), series.Len())
	}

	result := models.NewSimulationResult(series.Symbol, strategyName, l.initialCapital)
	result.Decisions = decisions
	if series.Len() > 0 {
		result.StartDate = series.Points[0].Date
		result.EndDate = series.Points[series.Len()-1].Date
	}

	cash := l.initialCapital
	shares := 0.0
	position := models.PositionFlat
	curve := make(EquityCurve, 0, series.Len())
	peak := l.initialCapital

	for i, point := range series.Points {
		d := decisions[i]
		switch d.Action {
		case models.ActionBuy:
			if position != models.PositionFlat {
				return nil, nil, fmt.Errorf("ledger: buy while holding at %s", point.Date.Format("2006-01-02"))
			}
			shares = cash / point.Close
			result.Trades = append(result.Trades, trade(models.ActionBuy, point, shares, cash))
			cash = 0
			position = models.PositionHolding

		case models.ActionSell:
			if position != models.PositionHolding {
				return nil, nil, fmt.Errorf("ledger: sell while flat at %s", point.Date.Format("2006-01-02"))
			}
			cash = shares * point.Close
			result.Trades = append(result.Trades, trade(models.ActionSell, point, shares, cash))
			shares = 0
			position = models.PositionFlat
		}

		value := cash + shares*point.Close
		if value > peak {
			peak = value
		}
		drawdown := 0.0
		if peak > 0 && value < peak {
			drawdown = (peak - value) / peak
		}
		curve = append(curve, EquityPoint{Date: point.Date, Value: value, Drawdown: drawdown})
	}

	if position != models.PositionFlat {
		return nil, nil, fmt.Errorf("ledger: position still open at series end")
	}

	result.FinalValue = cash
	return result, curve, nil
}

func trade(action models.Action, point models.PricePoint, shares, value float64) models.Trade {
	return models.Trade{
		Action: action,
		Date:   point.Date,
		Price:  decimal.NewFromFloat(point.Close),
		Shares: decimal.NewFromFloat(shares),
		Value:  decimal.NewFromFloat(value),
	}
}
