package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // 0 when the source has no adjusted close
	Volume   float64
}

// PricePoint is one closing price on a trading date.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds daily closing prices for one symbol, ascending by date.
type PriceSeries struct {
	Symbol    string
	Start     time.Time
	End       time.Time
	Source    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of price points.
func (s *PriceSeries) Len() int { return len(s.Points) }

// TradingDate truncates t to midnight UTC of its calendar date in t's location.
func TradingDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
