// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for simulation runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogSymbolStart logs the start of a per-symbol simulation.
func (rl *RunLogger) LogSymbolStart(runID, symbol string, points int) {
	rl.WithFields(logrus.Fields{
		"run_id": runID,
		"symbol": symbol,
		"points": points,
	}).Info("Symbol simulation started")
}

// LogSymbolResult logs the outcome for one (symbol, strategy) pair.
func (rl *RunLogger) LogSymbolResult(runID, symbol, strategy string, finalValue, totalReturn float64, trades int) {
	rl.WithFields(logrus.Fields{
		"run_id":       runID,
		"symbol":       symbol,
		"strategy":     strategy,
		"final_value":  finalValue,
		"total_return": totalReturn,
		"trades":       trades,
	}).Info("Symbol simulation completed")
}

// LogSymbolSkipped logs a symbol skipped because its data was unavailable.
func (rl *RunLogger) LogSymbolSkipped(runID, symbol string, err error) {
	rl.WithFields(logrus.Fields{
		"run_id": runID,
		"symbol": symbol,
		"error":  err.Error(),
	}).Warn("Symbol skipped, continuing batch")
}

// LogRunCompleted logs the end of a batch run.
func (rl *RunLogger) LogRunCompleted(runID string, symbols, skipped int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"run_id":          runID,
		"symbols":         symbols,
		"skipped":         skipped,
		"run_duration_ms": durationMs,
	}).Info("Simulation run completed")
}
