package models

import (
	"time"

	"github.com/google/uuid"
)

// SimulationResult is the outcome of running one strategy over one symbol's
// price series. A result is produced once per (symbol, strategy) pair.
type SimulationResult struct {
	ID             uuid.UUID  `json:"id"`
	Symbol         string     `json:"symbol"`
	Strategy       string     `json:"strategy"`
	InitialCapital float64    `json:"initial_capital"`
	FinalValue     float64    `json:"final_value"`
	Decisions      []Decision `json:"decisions"`
	Trades         []Trade    `json:"trades"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewSimulationResult creates a result with a fresh ID.
func NewSimulationResult(symbol, strategy string, initialCapital float64) *SimulationResult {
	return &SimulationResult{
		ID:             uuid.New(),
		Symbol:         symbol,
		Strategy:       strategy,
		InitialCapital: initialCapital,
		FinalValue:     initialCapital,
		CreatedAt:      time.Now().UTC(),
	}
}

// TotalReturn is the fractional return over initial capital.
func (r *SimulationResult) TotalReturn() float64 {
	if r.InitialCapital <= 0 {
		return 0
	}
	return (r.FinalValue - r.InitialCapital) / r.InitialCapital
}

// TradeCount returns the number of executed trades.
func (r *SimulationResult) TradeCount() int {
	return len(r.Trades)
}

// RoundTrips returns the number of completed buy/sell pairs.
func (r *SimulationResult) RoundTrips() int {
	sells := 0
	for _, t := range r.Trades {
		if t.Action == ActionSell {
			sells++
		}
	}
	return sells
}
