// Package models defines the core domain types shared across the simulator.
package models

import (
	"fmt"
	"time"
)

// PricePoint is a single daily observation for a symbol.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is the time-ordered closing price history for one symbol.
// A series is fetched once and treated as read-only afterwards.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries constructs a series and validates its invariants.
func NewPriceSeries(symbol string, points []PricePoint) (*PriceSeries, error) {
	s := &PriceSeries{Symbol: symbol, Points: points}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of price points in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Validate enforces the series invariants: dates strictly increasing and
// prices positive. An empty series is valid; callers decide whether an empty
// series is an error for their use case.
func (s *PriceSeries) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("price series: symbol is required")
	}
	for i, p := range s.Points {
		if p.Close <= 0 {
			return fmt.Errorf("price series %s: non-positive price %.4f at index %d", s.Symbol, p.Close, i)
		}
		if i > 0 && !p.Date.After(s.Points[i-1].Date) {
			return fmt.Errorf("price series %s: dates not strictly increasing at index %d", s.Symbol, i)
		}
	}
	return nil
}

// Closes returns the closing prices in order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Window returns the sub-series with dates in [start, end]. The returned
// series shares the underlying points slice.
func (s *PriceSeries) Window(start, end time.Time) *PriceSeries {
	lo := 0
	for lo < len(s.Points) && s.Points[lo].Date.Before(start) {
		lo++
	}
	hi := len(s.Points)
	for hi > lo && s.Points[hi-1].Date.After(end) {
		hi--
	}
	return &PriceSeries{Symbol: s.Symbol, Points: s.Points[lo:hi]}
}

// SMA returns the simple moving average over the given window. Positions
// before the window is full are NaN-free: they are reported as 0 and callers
// must check HasSMA.
func (s *PriceSeries) SMA(window int) []float64 {
	out := make([]float64, len(s.Points))
	if window <= 0 {
		return out
	}
	sum := 0.0
	for i, p := range s.Points {
		sum += p.Close
		if i >= window {
			sum -= s.Points[i-window].Close
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// HasSMA reports whether the SMA value at index i is defined for the window.
func HasSMA(i, window int) bool {
	return i >= window-1
}
