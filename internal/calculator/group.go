package calculator

import (
	"time"

	"CalendarEffects/internal/model"
)

// MeanByWeekday returns the mean return for Monday..Friday, in that order.
// Weekends are ignored. Empty categories report a zero mean with Count 0.
func MeanByWeekday(records []model.ReturnRecord) []model.GroupMean {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, r := range records {
		sums[r.Weekday] += r.Return
		counts[r.Weekday]++
	}
	out := make([]model.GroupMean, len(model.Weekdays))
	for i, d := range model.Weekdays {
		out[i] = groupMean(d.String(), sums[d], counts[d])
	}
	return out
}

// MeanByMonth returns the mean return for January..December, in that order.
func MeanByMonth(records []model.ReturnRecord) []model.GroupMean {
	var sums [13]float64
	var counts [13]int
	for _, r := range records {
		sums[r.Month] += r.Return
		counts[r.Month]++
	}
	out := make([]model.GroupMean, len(model.Months))
	for i, m := range model.Months {
		out[i] = groupMean(m.String(), sums[m], counts[m])
	}
	return out
}

func groupMean(label string, sum float64, count int) model.GroupMean {
	g := model.GroupMean{Label: label, Count: count}
	if count > 0 {
		g.Mean = sum / float64(count)
	}
	return g
}
