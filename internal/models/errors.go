package models

import "errors"

// Custom errors
var (
	ErrEmptySeries     = errors.New("price series is empty")
	ErrDataUnavailable = errors.New("price data unavailable")
	ErrUnknownSymbol   = errors.New("unknown symbol")
	ErrInvalidCapital  = errors.New("initial capital must be positive")
)
