package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is a trading decision for a single day.
type Action int

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Position is the holding state of the simulated portfolio. The state machine
// is: BUY moves Flat -> Holding, SELL moves Holding -> Flat. Simulations start
// flat and are force-liquidated to flat at series end so results are
// comparable across strategies.
type Position int

const (
	PositionFlat Position = iota
	PositionHolding
)

// String returns the position name.
func (p Position) String() string {
	if p == PositionHolding {
		return "HOLDING"
	}
	return "FLAT"
}

// Apply transitions the position by an action. Hold, a buy while holding, and
// a sell while flat leave the position unchanged.
func (p Position) Apply(a Action) Position {
	switch {
	case a == ActionBuy && p == PositionFlat:
		return PositionHolding
	case a == ActionSell && p == PositionHolding:
		return PositionFlat
	default:
		return p
	}
}

// Decision is a dated action at a series index.
type Decision struct {
	Index  int       `json:"index"`
	Date   time.Time `json:"date"`
	Action Action    `json:"action"`
}

// Trade is an executed buy or sell. Monetary fields use decimal so reports
// and the run recorder are exact regardless of how large the position grew.
type Trade struct {
	Action Action          `json:"action"`
	Date   time.Time       `json:"date"`
	Price  decimal.Decimal `json:"price"`
	Shares decimal.Decimal `json:"shares"`
	Value  decimal.Decimal `json:"value"`
}
