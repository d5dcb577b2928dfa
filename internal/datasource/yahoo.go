package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/yourusername/stocksim/internal/metrics"
	"github.com/yourusername/stocksim/internal/models"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource fetches daily closing prices from the Yahoo Finance chart API.
type YahooSource struct {
	client  *RateLimitedClient
	baseURL string
	enabled bool
}

// NewYahooSource creates a Yahoo Finance data source.
func NewYahooSource(client *RateLimitedClient, enabled bool) *YahooSource {
	return &YahooSource{
		client:  client,
		baseURL: defaultYahooBaseURL,
		enabled: enabled,
	}
}

// Name returns the data source name
func (y *YahooSource) Name() string { return "yahoo" }

// IsEnabled returns whether the source is enabled
func (y *YahooSource) IsEnabled() bool { return y.enabled }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchDaily retrieves the daily close series for a symbol within [start, end].
func (y *YahooSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, url.PathEscape(symbol), start.Unix(), end.AddDate(0, 0, 1).Unix())

	began := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(ctx, req)
	if err != nil {
		metrics.RecordFetchError(y.Name())
		return nil, NewSourceError(y.Name(), ErrCodeNetworkError, "chart request failed", err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.WithLabelValues(y.Name()).Observe(time.Since(began).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFetchError(y.Name())
		return nil, NewSourceError(y.Name(), ErrCodeNetworkError, "reading body failed", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, NewSourceError(y.Name(), ErrCodeNotFound, symbol, models.ErrUnknownSymbol)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetchError(y.Name())
		return nil, NewSourceError(y.Name(), ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), ErrServerError)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, NewSourceError(y.Name(), ErrCodeInvalidData, "decoding chart failed", err)
	}
	if chart.Chart.Error != nil {
		return nil, NewSourceError(y.Name(), ErrCodeNotFound, chart.Chart.Error.Description, models.ErrUnknownSymbol)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, NewSourceError(y.Name(), ErrCodeNotFound, "no data returned", models.ErrDataUnavailable)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	points := make([]models.PricePoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c := toFloat(quote.Close[i])
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		points = append(points, models.PricePoint{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: c,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	series, err := models.NewPriceSeries(symbol, points)
	if err != nil {
		return nil, NewSourceError(y.Name(), ErrCodeInvalidData, "series validation failed", err)
	}
	return series, nil
}
