package datasource

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/stocksim/internal/models"
)

// CachedSource wraps another Source with an in-memory TTL cache so that
// repeated scheduled runs over the same window do not refetch.
type CachedSource struct {
	inner Source
	cache *gocache.Cache
}

// NewCachedSource wraps inner with a cache using the given TTL.
func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Name returns the wrapped source's name
func (c *CachedSource) Name() string { return c.inner.Name() }

// IsEnabled returns whether the wrapped source is enabled
func (c *CachedSource) IsEnabled() bool { return c.inner.IsEnabled() }

func cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s", symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// FetchDaily returns the cached series when present, fetching otherwise.
func (c *CachedSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	key := cacheKey(symbol, start, end)
	if cached, found := c.cache.Get(key); found {
		return cached.(*models.PriceSeries), nil
	}

	series, err := c.inner.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, series, gocache.DefaultExpiration)
	return series, nil
}
