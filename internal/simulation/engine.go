package simulation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/stocksim/internal/datasource"
	"github.com/yourusername/stocksim/internal/logger"
	"github.com/yourusername/stocksim/internal/metrics"
	"github.com/yourusername/stocksim/internal/models"
	"github.com/yourusername/stocksim/internal/strategy"
)

// StrategyOutcome is the result of running one strategy over one symbol.
type StrategyOutcome struct {
	Result  *models.SimulationResult
	Curve   EquityCurve
	Metrics Metrics
}

// SymbolRun collects the outcomes of every strategy over one symbol.
type SymbolRun struct {
	Symbol   string
	Series   *models.PriceSeries
	Source   string
	Outcomes []StrategyOutcome
}

// SkippedSymbol records a symbol dropped from the batch and why.
type SkippedSymbol struct {
	Symbol string
	Reason error
}

// RunReport is the complete output of one batch run.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Config    Config
	Runs      []SymbolRun
	Skipped   []SkippedSymbol
}

// Engine runs every configured strategy over every configured symbol.
// Symbols whose data cannot be fetched are skipped; the batch continues.
type Engine struct {
	cfg        Config
	sources    []datasource.Source
	strategies []strategy.Strategy
	log        *logger.RunLogger
}

// NewEngine creates a simulation engine.
func NewEngine(cfg Config, sources []datasource.Source, strategies []strategy.Strategy, log *logger.RunLogger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, errors.New("engine: at least one data source is required")
	}
	if len(strategies) == 0 {
		return nil, errors.New("engine: at least one strategy is required")
	}
	return &Engine{cfg: cfg, sources: sources, strategies: strategies, log: log}, nil
}

// DefaultStrategies returns the strategy lineup compared by a run.
func DefaultStrategies(smaWindow int) []strategy.Strategy {
	return []strategy.Strategy{
		strategy.NewGreedy(),
		strategy.NewDynamicProgramming(),
		strategy.NewSMATrend(smaWindow),
	}
}

// Run executes the batch and returns the report. A symbol fails the batch
// only when every data source fails for it; strategy or ledger errors on a
// fetched series are real bugs and abort the run.
func (e *Engine) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Config:    e.cfg,
	}

	ledger, err := NewLedger(e.cfg.InitialCapital)
	if err != nil {
		return nil, err
	}

	for _, symbol := range e.cfg.Symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		series, source, err := e.fetch(ctx, symbol)
		if err != nil {
			e.log.LogSymbolSkipped(report.RunID, symbol, err)
			metrics.RecordSymbolSkipped()
			report.Skipped = append(report.Skipped, SkippedSymbol{Symbol: symbol, Reason: err})
			continue
		}

		e.log.LogSymbolStart(report.RunID, symbol, series.Len())

		run := SymbolRun{Symbol: symbol, Series: series, Source: source}
		for _, strat := range e.strategies {
			outcome, err := e.runStrategy(ctx, ledger, strat, series)
			if err != nil {
				return nil, err
			}
			e.log.LogSymbolResult(report.RunID, symbol, strat.Name(),
				outcome.Result.FinalValue, outcome.Metrics.TotalReturn, outcome.Result.TradeCount())
			metrics.RecordOutcome(symbol, strat.Name(), outcome.Result.FinalValue, outcome.Metrics.TotalReturn)
			run.Outcomes = append(run.Outcomes, outcome)
		}

		metrics.RecordSymbolProcessed()
		report.Runs = append(report.Runs, run)
	}

	report.Duration = time.Since(report.StartedAt)
	metrics.RecordRun(report.Duration.Seconds())
	e.log.LogRunCompleted(report.RunID, len(report.Runs), len(report.Skipped), float64(report.Duration.Milliseconds()))
	return report, nil
}

// fetch tries each enabled source in order until one returns data. A source
// that succeeds with zero points is remembered but later sources still get a
// chance; an empty series is a valid zero-activity outcome, not a failure.
func (e *Engine) fetch(ctx context.Context, symbol string) (*models.PriceSeries, string, error) {
	var lastErr error
	var empty *models.PriceSeries
	var emptySource string
	for _, src := range e.sources {
		if !src.IsEnabled() {
			continue
		}
		series, err := src.FetchDaily(ctx, symbol, e.cfg.StartDate, e.cfg.EndDate)
		if err != nil {
			lastErr = err
			continue
		}
		if series.Len() == 0 {
			empty, emptySource = series, src.Name()
			continue
		}
		return series, src.Name(), nil
	}
	if empty != nil {
		return empty, emptySource, nil
	}
	if lastErr == nil {
		lastErr = models.ErrDataUnavailable
	}
	return nil, "", lastErr
}

func (e *Engine) runStrategy(ctx context.Context, ledger *Ledger, strat strategy.Strategy, series *models.PriceSeries) (StrategyOutcome, error) {
	decisions, err := strat.Decide(ctx, series)
	if err != nil {
		return StrategyOutcome{}, err
	}
	for _, d := range decisions {
		metrics.RecordDecision(strat.Name(), d.Action.String())
	}

	result, curve, err := ledger.Run(series, strat.Name(), decisions)
	if err != nil {
		return StrategyOutcome{}, err
	}

	return StrategyOutcome{
		Result:  result,
		Curve:   curve,
		Metrics: CalculateMetrics(result, curve),
	}, nil
}
