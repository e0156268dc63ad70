package collector

import (
	"context"
	"errors"
	"time"

	"CalendarEffects/internal/model"
)

// ErrDataUnavailable is returned when a source has no rows for the symbol and range.
var ErrDataUnavailable = errors.New("data unavailable")

// Fetcher defines the interface for fetching daily market data.
// Implementations return bars in ascending time order with trading dates in [start, end).
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && date.Before(end)
}
