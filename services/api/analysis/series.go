// Package analysis implements the daily aggregation, date alignment and
// correlation pipeline shared by all report endpoints.
package analysis

import "time"

// Sample is one raw (timestamp, value) reading for a single entity.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// DayValue is one point of a daily series.
type DayValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// DailySeries holds at most one value per calendar day, sorted by date
// ascending. Dates are UTC midnights.
type DailySeries []DayValue

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Clip returns the sub-series within [start, end], both bounds inclusive.
func (s DailySeries) Clip(start, end time.Time) DailySeries {
	start, end = Day(start), Day(end)
	out := make(DailySeries, 0, len(s))
	for _, dv := range s {
		if dv.Date.Before(start) || dv.Date.After(end) {
			continue
		}
		out = append(out, dv)
	}
	return out
}
