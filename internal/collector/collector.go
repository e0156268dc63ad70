package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"CalendarEffects/internal/model"
	"CalendarEffects/internal/recorder"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
	Calls     int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, start, end time.Time) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

// generateMockBars produces one bar per weekday in [start, end) with a slow drift.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := model.TradingDate(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%11-5)*0.001)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

// Collector acquires the daily price series for one symbol and range.
type Collector struct {
	Fetcher  Fetcher
	Cache    recorder.Recorder
	Symbol   string
	Start    time.Time
	End      time.Time
	Adjusted bool // prefer adjusted close when the source has one
	Logger   *zap.Logger
}

// NewCollector creates a new Collector. A nil cache disables caching.
func NewCollector(fetcher Fetcher, cache recorder.Recorder, symbol string, start, end time.Time, logger *zap.Logger) *Collector {
	if cache == nil {
		cache = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Fetcher:  fetcher,
		Cache:    cache,
		Symbol:   symbol,
		Start:    start,
		End:      end,
		Adjusted: true,
		Logger:   logger,
	}
}

// Collect returns the price series for the collector's configured range.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	return c.CollectRange(ctx, c.Start, c.End)
}

// CollectRange returns the price series for [start, end), from the cache when
// it covers the range, otherwise with a single fetch attempt. The collector
// itself is not modified, so concurrent calls are safe when the fetcher and
// cache are.
func (c *Collector) CollectRange(ctx context.Context, start, end time.Time) (*model.PriceSeries, error) {
	source := c.Fetcher.Name()
	bars, covered, err := c.Cache.LoadBars(c.Symbol, source, start, end)
	if err != nil {
		c.Logger.Warn("price cache read failed, fetching", zap.Error(err))
		covered = false
	}

	if covered {
		c.Logger.Info("price cache hit", zap.String("fetcher", source),
			zap.String("bars", humanize.Comma(int64(len(bars)))))
		source = "cache"
	} else {
		bars, err = c.Fetcher.FetchDailyBars(ctx, c.Symbol, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetch daily bars: %w", err)
		}
		if len(bars) > 0 {
			if err := c.Cache.RecordBars(c.Symbol, source, start, end, bars); err != nil {
				c.Logger.Warn("price cache write failed", zap.Error(err))
			}
		}
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no rows for %s between %s and %s", ErrDataUnavailable,
			c.Symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	adjusted := c.Adjusted && allAdjusted(bars)
	if c.Adjusted && !adjusted {
		c.Logger.Warn("adjusted close missing on some bars, using raw close for the whole series",
			zap.String("symbol", c.Symbol))
	}

	series := &model.PriceSeries{
		Symbol:    c.Symbol,
		Start:     start,
		End:       end,
		Source:    source,
		Points:    make([]model.PricePoint, len(bars)),
		FetchedAt: time.Now(),
	}
	for i, b := range bars {
		price := b.Close
		if adjusted {
			price = b.AdjClose
		}
		series.Points[i] = model.PricePoint{Date: model.TradingDate(b.Time), Close: price}
	}

	c.Logger.Info("price series acquired",
		zap.String("source", source),
		zap.Bool("adjusted", adjusted),
		zap.String("points", humanize.Comma(int64(series.Len()))),
		zap.String("first", series.Points[0].Date.Format("2006-01-02")),
		zap.String("last", series.Points[series.Len()-1].Date.Format("2006-01-02")),
	)
	return series, nil
}

// allAdjusted reports whether every bar carries an adjusted close. Mixing
// adjusted and raw closes in one series would create spurious returns.
func allAdjusted(bars []model.OHLCV) bool {
	for _, b := range bars {
		if b.AdjClose <= 0 {
			return false
		}
	}
	return true
}
