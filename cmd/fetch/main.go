// Package main provides a small tool that downloads historical closes to
// local CSV files, so simulations can run offline against the csv source.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/stocksim/internal/config"
	"github.com/yourusername/stocksim/internal/datasource"
	"github.com/yourusername/stocksim/internal/metrics"
	"github.com/yourusername/stocksim/internal/models"
)

func main() {
	configFile := flag.String("config", "./config/config.yaml", "Path to configuration file")
	outDir := flag.String("out", "data", "Directory to write <SYMBOL>.csv files to")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall fetch timeout")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	metrics.InitRegistry()

	start, end, err := cfg.Simulation.DateRange()
	if err != nil {
		log.Fatalf("Invalid date range: %v", err)
	}

	sources, err := datasource.BuildSources(&cfg.DataSources, log.Default())
	if err != nil {
		log.Fatalf("Failed to build data sources: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	failures := 0
	for _, symbol := range cfg.Simulation.Symbols {
		series, err := fetch(ctx, sources, symbol, start, end)
		if err != nil {
			log.Printf("Failed to fetch %s: %v", symbol, err)
			failures++
			continue
		}
		if err := datasource.WriteSeries(*outDir, series); err != nil {
			log.Fatalf("Failed to write %s: %v", symbol, err)
		}
		log.Printf("Wrote %s (%d points)", symbol, series.Len())
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d symbols failed\n", failures, len(cfg.Simulation.Symbols))
		os.Exit(1)
	}
}

func fetch(ctx context.Context, sources []datasource.Source, symbol string, start, end time.Time) (series *models.PriceSeries, err error) {
	for _, src := range sources {
		if !src.IsEnabled() {
			continue
		}
		s, fetchErr := src.FetchDaily(ctx, symbol, start, end)
		if fetchErr != nil {
			err = fetchErr
			continue
		}
		return s, nil
	}
	if err == nil {
		err = models.ErrDataUnavailable
	}
	return nil, err
}
