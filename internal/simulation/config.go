package simulation

import (
	"fmt"
	"time"

	"github.com/yourusername/stocksim/internal/config"
)

// Config holds the parameters for one batch simulation run.
type Config struct {
	Symbols        []string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	SMAWindow      int
	OutputDir      string
}

// FromConfig converts app config to a simulation config
func FromConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("config is required")
	}
	start, end, err := cfg.Simulation.DateRange()
	if err != nil {
		return Config{}, fmt.Errorf("invalid date range: %w", err)
	}

	sc := Config{
		Symbols:        cfg.Simulation.Symbols,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: cfg.Simulation.InitialCapital,
		SMAWindow:      cfg.Simulation.SMAWindow,
		OutputDir:      cfg.Output.Dir,
	}

	return sc, sc.Validate()
}

// Validate validates simulation config parameters
func (c Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive")
	}
	if c.SMAWindow < 2 {
		return fmt.Errorf("sma window must be at least 2")
	}
	return nil
}
