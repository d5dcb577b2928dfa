// Package main provides the entry point for the batch trading simulator.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/stocksim/internal/config"
	"github.com/yourusername/stocksim/internal/datasource"
	"github.com/yourusername/stocksim/internal/logger"
	"github.com/yourusername/stocksim/internal/metrics"
	"github.com/yourusername/stocksim/internal/recorder"
	"github.com/yourusername/stocksim/internal/report"
	"github.com/yourusername/stocksim/internal/scheduler"
	"github.com/yourusername/stocksim/internal/simulation"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	schedule   bool
	symbols    []string

	appLogger *logrus.Logger
	cfg       *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&schedule, "schedule", false, "Run on the configured cron schedule instead of once")
	rootCmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Override configured symbols")
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compare trading strategies over historical prices",
	Long: `Runs a greedy heuristic, a dynamic-programming optimizer, and an SMA
trend follower over historical daily closes and reports how each would have
grown the same initial capital.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if schedule {
			return runScheduled()
		}
		return runOnce(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("simulate %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if len(symbols) > 0 {
		cfg.Simulation.Symbols = symbols
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())
	metrics.InitRegistry()
	return nil
}

// runOnce executes one batch and writes every configured report.
func runOnce(ctx context.Context) error {
	simCfg, err := simulation.FromConfig(cfg)
	if err != nil {
		return err
	}

	httpLog := log.New(appLogger.Writer(), "", 0)
	sources, err := datasource.BuildSources(&cfg.DataSources, httpLog)
	if err != nil {
		return err
	}

	engine, err := simulation.NewEngine(simCfg, sources,
		simulation.DefaultStrategies(simCfg.SMAWindow), logger.NewRunLogger(appLogger))
	if err != nil {
		return err
	}

	runReport, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	report.NewConsole(os.Stdout).Print(runReport)

	csvWriter := report.NewCSVWriter(cfg.Output.Dir, cfg.Output.EquityCurves)
	if err := csvWriter.Write(runReport); err != nil {
		return fmt.Errorf("writing CSV reports: %w", err)
	}
	if cfg.Output.HTMLReports {
		if err := report.NewHTMLWriter(cfg.Output.Dir).Write(runReport); err != nil {
			return fmt.Errorf("writing HTML reports: %w", err)
		}
	}
	appLogger.WithField("dir", cfg.Output.Dir).Info("Reports written")

	return record(runReport)
}

func record(runReport *simulation.RunReport) error {
	var rec recorder.Recorder = recorder.Noop{}
	if cfg.Recorder.Enabled {
		sqliteRec, err := recorder.NewSQLiteRecorder(cfg.Recorder.Path)
		if err != nil {
			return fmt.Errorf("opening recorder: %w", err)
		}
		rec = sqliteRec
	}
	defer rec.Close()

	if err := rec.RecordRun(runReport); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// runScheduled repeats the batch on the configured cron expression until
// interrupted.
func runScheduled() error {
	if !cfg.Schedule.Enabled {
		return fmt.Errorf("--schedule requires schedule.enabled in configuration")
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, cfg.App.Name, appLogger)
		metricsServer.Start()
	}

	sched := scheduler.NewScheduler(runOnce, appLogger)
	if err := sched.Schedule(cfg.Schedule.Expression); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	appLogger.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Waiting for scheduled runs")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	if err := sched.Stop(); err != nil {
		return err
	}
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return metricsServer.Shutdown(ctx)
	}
	return nil
}
