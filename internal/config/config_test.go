package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigPath = "testdata/valid_config.yaml"

func TestLoadConfigSuccess(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "test-key")

	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "stocksim", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Len(t, cfg.Simulation.Symbols, 5)
	assert.Equal(t, 10000000.0, cfg.Simulation.InitialCapital)
	assert.Equal(t, 5, cfg.Simulation.SMAWindow)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "expanded_secret_value")

	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	var found bool
	for _, src := range cfg.DataSources.Sources {
		if src.Name == "alphavantage" {
			found = true
			assert.Equal(t, "expanded_secret_value", src.APIKey)
		}
	}
	assert.True(t, found)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent_config.yaml")
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(errUnwrapAll(err)))
}

func errUnwrapAll(err error) error {
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/nonexistent_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "stocksim", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 10000000.0, cfg.Simulation.InitialCapital)
	assert.Equal(t, "results", cfg.Output.Dir)
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "test-key")
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	assert.NoError(t, Validate(cfg))

	t.Run("bad environment", func(t *testing.T) {
		bad := *cfg
		bad.App.Environment = "invalid"
		assert.Error(t, Validate(&bad))
	})

	t.Run("bad log level", func(t *testing.T) {
		bad := *cfg
		bad.App.LogLevel = "loud"
		assert.Error(t, Validate(&bad))
	})

	t.Run("start after end", func(t *testing.T) {
		bad := *cfg
		bad.Simulation.StartDate = "2026-01-01"
		bad.Simulation.EndDate = "2025-01-01"
		assert.Error(t, Validate(&bad))
	})

	t.Run("no symbols", func(t *testing.T) {
		bad := *cfg
		bad.Simulation.Symbols = nil
		assert.Error(t, Validate(&bad))
	})

	t.Run("no enabled sources", func(t *testing.T) {
		bad := *cfg
		bad.DataSources.Sources = []DataSourceConfig{{Name: "yahoo", Enabled: false}}
		assert.Error(t, Validate(&bad))
	})
}

func TestSecretsOverlay(t *testing.T) {
	cfg := &Config{
		DataSources: DataSourcesConfig{
			Sources: []DataSourceConfig{
				{Name: "yahoo", Enabled: true},
				{Name: "alphavantage", Enabled: true},
			},
		},
	}
	overlaySecretsOnConfig(cfg, &SecretsOverlay{AlphaVantageAPIKey: "from-aws"})

	assert.Equal(t, "", cfg.DataSources.Sources[0].APIKey)
	assert.Equal(t, "from-aws", cfg.DataSources.Sources[1].APIKey)
}
