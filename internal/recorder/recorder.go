package recorder

import (
	"time"

	"CalendarEffects/internal/model"
)

// Recorder caches raw daily bars so repeated runs over the same range skip the network.
// Only acquired prices are stored; computed returns and test results never are.
type Recorder interface {
	// LoadBars returns the bars cached from source for [start, end). covered is
	// false when no earlier fetch from that source spanned the whole range.
	LoadBars(symbol, source string, start, end time.Time) (bars []model.OHLCV, covered bool, err error)
	// RecordBars stores bars fetched from source for [start, end).
	RecordBars(symbol, source string, start, end time.Time, bars []model.OHLCV) error
	Close() error
}
