package model

import "time"

// HypothesisResult is the outcome of one two-sample test.
type HypothesisResult struct {
	Name        string
	LabelA      string
	LabelB      string
	MeanA       float64
	MeanB       float64
	CountA      int
	CountB      int
	TStat       float64
	DF          float64
	PValue      float64
	Alpha       float64
	Significant bool // PValue < Alpha
}

// AnomalyReport aggregates everything the renderers need for one run.
type AnomalyReport struct {
	RunID        string
	Symbol       string
	Start        time.Time
	End          time.Time
	Observations int
	Weekend      *HypothesisResult
	January      *HypothesisResult
	WeekdayMeans []GroupMean // Monday..Friday
	MonthMeans   []GroupMean // January..December
}
