package calculator

import (
	"math"

	"CalendarEffects/internal/model"
)

// ComputeReturns converts a price series into daily percentage returns.
// The first point has no predecessor and yields no record. Records whose
// return is undefined (zero, negative or non-finite price on either side)
// are dropped.
func ComputeReturns(series *model.PriceSeries) []model.ReturnRecord {
	if series == nil || len(series.Points) < 2 {
		return nil
	}
	prices := extractCloses(series.Points)
	records := make([]model.ReturnRecord, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev, cur := prices[i-1], prices[i]
		if !validPrice(prev) || !validPrice(cur) {
			continue
		}
		date := series.Points[i].Date
		records = append(records, model.ReturnRecord{
			Date:    date,
			Return:  (cur - prev) / prev * 100,
			Weekday: date.Weekday(),
			Month:   date.Month(),
		})
	}
	return records
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func extractCloses(points []model.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}
