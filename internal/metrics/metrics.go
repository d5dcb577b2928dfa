// Package metrics provides the centralized Prometheus metrics registry for
// the simulator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stocksim",
		Name:      "runs_total",
		Help:      "Total number of simulation runs",
	})
	SymbolsProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stocksim",
		Name:      "symbols_processed_total",
		Help:      "Total number of symbols simulated",
	})
	SymbolsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stocksim",
		Name:      "symbols_skipped_total",
		Help:      "Total number of symbols skipped because data was unavailable",
	})
	FetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stocksim",
		Name:      "fetch_errors_total",
		Help:      "Total number of data source fetch errors",
	}, []string{"source"})
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stocksim",
		Name:      "decisions_total",
		Help:      "Total number of trading decisions produced",
	}, []string{"strategy", "action"})
)

// Gauge metrics
var (
	LastRunFinalValue = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stocksim",
		Name:      "last_run_final_value",
		Help:      "Final portfolio value per symbol and strategy for the last run",
	}, []string{"symbol", "strategy"})
	LastRunTotalReturn = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stocksim",
		Name:      "last_run_total_return",
		Help:      "Total fractional return per symbol and strategy for the last run",
	}, []string{"symbol", "strategy"})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stocksim",
		Name:      "run_duration_seconds",
		Help:      "Duration of complete simulation runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stocksim",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of price series fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RunsTotal)
		registry.MustRegister(SymbolsProcessedTotal)
		registry.MustRegister(SymbolsSkippedTotal)
		registry.MustRegister(FetchErrorsTotal)
		registry.MustRegister(DecisionsTotal)

		registry.MustRegister(LastRunFinalValue)
		registry.MustRegister(LastRunTotalReturn)

		registry.MustRegister(RunDuration)
		registry.MustRegister(FetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRun records a completed simulation run.
func RecordRun(durationSeconds float64) {
	RunsTotal.Inc()
	RunDuration.Observe(durationSeconds)
}

// RecordSymbolProcessed records a successfully simulated symbol.
func RecordSymbolProcessed() {
	SymbolsProcessedTotal.Inc()
}

// RecordSymbolSkipped records a symbol skipped due to a data failure.
func RecordSymbolSkipped() {
	SymbolsSkippedTotal.Inc()
}

// RecordFetchError records a data source fetch error.
func RecordFetchError(source string) {
	FetchErrorsTotal.WithLabelValues(source).Inc()
}

// RecordDecision records one trading decision.
func RecordDecision(strategy, action string) {
	DecisionsTotal.WithLabelValues(strategy, action).Inc()
}

// RecordOutcome updates the per-outcome gauges.
func RecordOutcome(symbol, strategy string, finalValue, totalReturn float64) {
	LastRunFinalValue.WithLabelValues(symbol, strategy).Set(finalValue)
	LastRunTotalReturn.WithLabelValues(symbol, strategy).Set(totalReturn)
}
