// Package recorder persists run history so scheduled runs can be compared
// over time.
package recorder

import (
	"github.com/yourusername/stocksim/internal/simulation"
)

// Recorder persists completed simulation runs.
type Recorder interface {
	// RecordRun persists a run report and its summary rows.
	RecordRun(report *simulation.RunReport) error

	Close() error
}
