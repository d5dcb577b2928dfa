package datasource

import (
	"fmt"
	"log"

	"github.com/yourusername/stocksim/internal/config"
)

// BuildSources constructs the enabled data sources from configuration, in
// the order they are configured. Sources are tried in order until one
// returns data for a symbol.
func BuildSources(cfg *config.DataSourcesConfig, logger *log.Logger) ([]Source, error) {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	var client *RateLimitedClient
	getClient := func() *RateLimitedClient {
		if client == nil {
			client = NewRateLimitedClient(httpCfg, logger)
		}
		return client
	}

	var sources []Source
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			continue
		}

		var src Source
		switch sc.Name {
		case "yahoo":
			src = NewYahooSource(getClient(), true)
		case "alphavantage":
			src = NewAlphaVantageSource(getClient(), sc.APIKey, true)
		case "csv":
			src = NewCSVSource(sc.Dir, true)
		default:
			return nil, fmt.Errorf("unknown data source %q", sc.Name)
		}

		if ttl := cfg.CacheTTL(); ttl > 0 {
			src = NewCachedSource(src, ttl)
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no data sources enabled")
	}
	return sources, nil
}
