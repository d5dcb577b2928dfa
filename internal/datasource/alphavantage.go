package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/yourusername/stocksim/internal/metrics"
	"github.com/yourusername/stocksim/internal/models"
)

const defaultAlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageSource fetches daily closes from the Alpha Vantage
// TIME_SERIES_DAILY endpoint. Requires an API key.
type AlphaVantageSource struct {
	client  *RateLimitedClient
	baseURL string
	apiKey  string
	enabled bool
}

// NewAlphaVantageSource creates an Alpha Vantage data source.
func NewAlphaVantageSource(client *RateLimitedClient, apiKey string, enabled bool) *AlphaVantageSource {
	return &AlphaVantageSource{
		client:  client,
		baseURL: defaultAlphaVantageBaseURL,
		apiKey:  apiKey,
		enabled: enabled && apiKey != "",
	}
}

// Name returns the data source name
func (a *AlphaVantageSource) Name() string { return "alphavantage" }

// IsEnabled returns whether the source is enabled
func (a *AlphaVantageSource) IsEnabled() bool { return a.enabled }

// alphaVantageDaily is the response shape of TIME_SERIES_DAILY.
type alphaVantageDaily struct {
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
}

// FetchDaily retrieves the daily close series for a symbol within [start, end].
func (a *AlphaVantageSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	if a.apiKey == "" {
		return nil, NewSourceError(a.Name(), ErrCodeUnknown, "missing API key", nil)
	}

	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", a.apiKey)
	u := fmt.Sprintf("%s/query?%s", a.baseURL, q.Encode())

	began := time.Now()
	resp, err := a.client.Get(ctx, u)
	if err != nil {
		metrics.RecordFetchError(a.Name())
		return nil, NewSourceError(a.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.WithLabelValues(a.Name()).Observe(time.Since(began).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFetchError(a.Name())
		return nil, NewSourceError(a.Name(), ErrCodeNetworkError, "reading body failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetchError(a.Name())
		return nil, NewSourceError(a.Name(), ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), ErrServerError)
	}

	var daily alphaVantageDaily
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, NewSourceError(a.Name(), ErrCodeInvalidData, "decoding response failed", err)
	}
	if daily.ErrorMessage != "" {
		return nil, NewSourceError(a.Name(), ErrCodeNotFound, daily.ErrorMessage, models.ErrUnknownSymbol)
	}
	if daily.Note != "" {
		return nil, NewSourceError(a.Name(), ErrCodeRateLimitExceeded, daily.Note, ErrRateLimitExceeded)
	}
	if len(daily.TimeSeries) == 0 {
		return nil, NewSourceError(a.Name(), ErrCodeNotFound, "empty time series", models.ErrDataUnavailable)
	}

	points := make([]models.PricePoint, 0, len(daily.TimeSeries))
	for dateStr, bar := range daily.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		closeStr, ok := bar["4. close"]
		if !ok {
			continue
		}
		c, err := strconv.ParseFloat(closeStr, 64)
		if err != nil || c <= 0 {
			continue
		}
		points = append(points, models.PricePoint{Date: date, Close: c})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	series, err := models.NewPriceSeries(symbol, points)
	if err != nil {
		return nil, NewSourceError(a.Name(), ErrCodeInvalidData, "series validation failed", err)
	}
	return series, nil
}
