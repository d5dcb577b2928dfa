package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yourusername/stocksim/internal/models"
)

// CSVSource reads daily closes from local CSV files, one file per symbol
// named <SYMBOL>.csv with a "date,close" header row. Useful for offline
// runs and as a cache of previously fetched data.
type CSVSource struct {
	dir     string
	enabled bool
}

// NewCSVSource creates a CSV file data source rooted at dir.
func NewCSVSource(dir string, enabled bool) *CSVSource {
	return &CSVSource{dir: dir, enabled: enabled}
}

// Name returns the data source name
func (c *CSVSource) Name() string { return "csv" }

// IsEnabled returns whether the source is enabled
func (c *CSVSource) IsEnabled() bool { return c.enabled }

// FetchDaily reads the symbol's CSV file and returns points within [start, end].
func (c *CSVSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(c.dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewSourceError(c.Name(), ErrCodeNotFound, path, models.ErrDataUnavailable)
		}
		return nil, NewSourceError(c.Name(), ErrCodeUnknown, "opening file failed", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	records, err := r.ReadAll()
	if err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeInvalidData, "parsing CSV failed", err)
	}
	if len(records) < 2 {
		return nil, NewSourceError(c.Name(), ErrCodeNotFound, "no rows", models.ErrDataUnavailable)
	}

	points := make([]models.PricePoint, 0, len(records)-1)
	for i, rec := range records[1:] { // skip header
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, NewSourceError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("row %d: bad date %q", i+2, rec[0]), err)
		}
		close, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, NewSourceError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("row %d: bad close %q", i+2, rec[1]), err)
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		points = append(points, models.PricePoint{Date: date, Close: close})
	}

	series, err := models.NewPriceSeries(symbol, points)
	if err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeInvalidData, "series validation failed", err)
	}
	return series, nil
}

// WriteSeries writes a price series to <dir>/<SYMBOL>.csv in the format
// FetchDaily reads back.
func WriteSeries(dir string, series *models.PriceSeries) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, series.Symbol+".csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "close"}); err != nil {
		return err
	}
	for _, p := range series.Points {
		if err := w.Write([]string{p.Date.Format("2006-01-02"), strconv.FormatFloat(p.Close, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
