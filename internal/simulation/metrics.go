package simulation

import (
	"encoding/json"
	"math"
	"time"

	"github.com/yourusername/stocksim/internal/models"
)

// tradingDaysPerYear annualizes daily return statistics.
const tradingDaysPerYear = 252

// Metrics represents performance metrics for one (symbol, strategy) outcome
type Metrics struct {
	TotalReturn  float64   `json:"total_return"`
	CAGR         float64   `json:"cagr"`
	MaxDrawdown  float64   `json:"max_drawdown"`
	SharpeRatio  float64   `json:"sharpe_ratio"`
	Volatility   float64   `json:"volatility"`
	TradeCount   int       `json:"trade_count"`
	RoundTrips   int       `json:"round_trips"`
	WinningTrips int       `json:"winning_trips"`
	LosingTrips  int       `json:"losing_trips"`
	WinRate      float64   `json:"win_rate"`
	TradingDays  int       `json:"trading_days"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// CalculateMetrics derives metrics from a simulation result and its curve
func CalculateMetrics(result *models.SimulationResult, curve EquityCurve) Metrics {
	metrics := Metrics{
		StartDate:   result.StartDate,
		EndDate:     result.EndDate,
		TradingDays: len(curve),
	}

	metrics.TotalReturn = result.TotalReturn()
	metrics.CAGR = calculateCAGR(result.InitialCapital, result.FinalValue, calendarDays(result.StartDate, result.EndDate))
	metrics.MaxDrawdown = curve.MaxDrawdown()
	metrics.Volatility = curve.GetVolatility()
	metrics.SharpeRatio = calculateSharpeRatio(curve.GetReturns())

	metrics.TradeCount = result.TradeCount()
	metrics.RoundTrips = result.RoundTrips()
	metrics.WinningTrips, metrics.LosingTrips = countTrips(result.Trades)
	if metrics.RoundTrips > 0 {
		metrics.WinRate = float64(metrics.WinningTrips) / float64(metrics.RoundTrips)
	}

	return metrics
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func calculateSharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

func calculateCAGR(initial, final float64, days int) float64 {
	if initial <= 0 || final <= 0 || days <= 0 {
		return 0
	}
	years := float64(days) / 365.0
	return math.Pow(final/initial, 1.0/years) - 1.0
}

func calendarDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// countTrips pairs buys with the following sell and counts whether the round
// trip gained or lost.
func countTrips(trades []models.Trade) (winning, losing int) {
	var buyValue float64
	var open bool
	for _, t := range trades {
		switch t.Action {
		case models.ActionBuy:
			buyValue, _ = t.Value.Float64()
			open = true
		case models.ActionSell:
			if !open {
				continue
			}
			sellValue, _ := t.Value.Float64()
			if sellValue > buyValue {
				winning++
			} else if sellValue < buyValue {
				losing++
			}
			open = false
		}
	}
	return winning, losing
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
