package analysis

import (
	"fmt"
	"time"

	"CalendarEffects/internal/calculator"
	"CalendarEffects/internal/model"
)

// DefaultAlpha is the significance threshold for both hypotheses.
const DefaultAlpha = 0.05

// Hypothesis splits return records into the two samples of one test.
// The order of A and B fixes the sign of the mean difference.
type Hypothesis struct {
	Name   string
	LabelA string
	LabelB string
	InA    func(model.ReturnRecord) bool
	InB    func(model.ReturnRecord) bool
}

// WeekendEffect compares Friday returns (A) against Monday returns (B).
var WeekendEffect = Hypothesis{
	Name:   "Weekend Effect",
	LabelA: "Friday",
	LabelB: "Monday",
	InA:    func(r model.ReturnRecord) bool { return r.Weekday == time.Friday },
	InB:    func(r model.ReturnRecord) bool { return r.Weekday == time.Monday },
}

// JanuaryEffect compares January returns (A) against every other month (B).
var JanuaryEffect = Hypothesis{
	Name:   "January Effect",
	LabelA: "January",
	LabelB: "Rest of Year",
	InA:    func(r model.ReturnRecord) bool { return r.Month == time.January },
	InB:    func(r model.ReturnRecord) bool { return r.Month != time.January },
}

// Partition returns the A and B samples for h.
func (h Hypothesis) Partition(records []model.ReturnRecord) (a, b []float64) {
	for _, r := range records {
		if h.InA(r) {
			a = append(a, r.Return)
		}
		if h.InB(r) {
			b = append(b, r.Return)
		}
	}
	return a, b
}

// Evaluate runs Welch's t-test on groupA vs groupB. The result is significant
// only when the p-value is strictly below alpha.
func Evaluate(groupA, groupB []float64, alpha float64) (*model.HypothesisResult, error) {
	res, err := calculator.WelchTTest(groupA, groupB)
	if err != nil {
		return nil, err
	}
	return &model.HypothesisResult{
		MeanA:       res.MeanA,
		MeanB:       res.MeanB,
		CountA:      res.NA,
		CountB:      res.NB,
		TStat:       res.TStat,
		DF:          res.DF,
		PValue:      res.PValue,
		Alpha:       alpha,
		Significant: IsSignificant(res.PValue, alpha),
	}, nil
}

// IsSignificant reports p < alpha.
func IsSignificant(p, alpha float64) bool {
	return p < alpha
}

// Test partitions records by h and evaluates the two samples.
func Test(h Hypothesis, records []model.ReturnRecord, alpha float64) (*model.HypothesisResult, error) {
	a, b := h.Partition(records)
	res, err := Evaluate(a, b, alpha)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Name, err)
	}
	res.Name = h.Name
	res.LabelA = h.LabelA
	res.LabelB = h.LabelB
	return res, nil
}

// Analyze derives returns from series and evaluates both calendar hypotheses.
// Each test is run at alpha on its own; no multiple-comparison correction is applied.
func Analyze(series *model.PriceSeries, alpha float64) (*model.AnomalyReport, error) {
	records := calculator.ComputeReturns(series)

	weekend, err := Test(WeekendEffect, records, alpha)
	if err != nil {
		return nil, err
	}
	january, err := Test(JanuaryEffect, records, alpha)
	if err != nil {
		return nil, err
	}

	return &model.AnomalyReport{
		Symbol:       series.Symbol,
		Start:        series.Start,
		End:          series.End,
		Observations: len(records),
		Weekend:      weekend,
		January:      january,
		WeekdayMeans: calculator.MeanByWeekday(records),
		MonthMeans:   calculator.MeanByMonth(records),
	}, nil
}
