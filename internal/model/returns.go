package model

import "time"

// ReturnRecord is the percentage return of one trading date versus the previous one.
type ReturnRecord struct {
	Date    time.Time
	Return  float64 // percent
	Weekday time.Weekday
	Month   time.Month
}

// DayName returns the English weekday name, e.g. "Monday".
func (r ReturnRecord) DayName() string { return r.Weekday.String() }

// MonthName returns the English month name, e.g. "January".
func (r ReturnRecord) MonthName() string { return r.Month.String() }

// GroupMean is the mean return of one calendar category.
type GroupMean struct {
	Label string
	Mean  float64
	Count int
}

// Weekdays lists the trading weekdays in chart order.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// Months lists the calendar months in chart order.
var Months = []time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
	time.July, time.August, time.September, time.October, time.November, time.December,
}
