// Package config provides configuration management for the StockSim application.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Simulation  SimulationConfig  `mapstructure:"simulation" validate:"required"`
	DataSources DataSourcesConfig `mapstructure:"data_sources" validate:"required"`
	Output      OutputConfig      `mapstructure:"output" validate:"required"`
	Recorder    RecorderConfig    `mapstructure:"recorder"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SimulationConfig represents the batch simulation parameters
type SimulationConfig struct {
	Symbols        []string `mapstructure:"symbols" validate:"required,min=1"`
	StartDate      string   `mapstructure:"start_date" validate:"required,simdate"`
	EndDate        string   `mapstructure:"end_date" validate:"required,simdate"`
	InitialCapital float64  `mapstructure:"initial_capital" validate:"required,gt=0"`
	SMAWindow      int      `mapstructure:"sma_window" validate:"required,gt=1"`
}

// DataSourcesConfig represents the price data source configuration
type DataSourcesConfig struct {
	Sources         []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	CacheTTLSeconds int                `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	RateLimit       float64            `mapstructure:"rate_limit" validate:"gte=0"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Dir     string `mapstructure:"dir"`
}

// OutputConfig represents report output configuration
type OutputConfig struct {
	Dir          string `mapstructure:"dir" validate:"required"`
	HTMLReports  bool   `mapstructure:"html_reports"`
	EquityCurves bool   `mapstructure:"equity_curves"`
}

// RecorderConfig represents run-history persistence configuration
type RecorderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents the optional cron schedule for repeated runs
type ScheduleConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Expression string `mapstructure:"expression"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DateRange parses the configured simulation window.
func (c *SimulationConfig) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// CacheTTL returns the data source cache TTL as a duration.
func (c *DataSourcesConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
