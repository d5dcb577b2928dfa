package recorder

import (
	"github.com/yourusername/stocksim/internal/simulation"
)

// Noop discards run history. Used when the recorder is disabled.
type Noop struct{}

func (Noop) RecordRun(*simulation.RunReport) error { return nil }
func (Noop) Close() error                          { return nil }
