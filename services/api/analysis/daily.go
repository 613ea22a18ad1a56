package analysis

import (
	"math"
	"sort"
	"time"
)

// Reduction selects how same-day samples collapse into one value.
type Reduction int

const (
	// ReduceMean averages same-day samples (water levels).
	ReduceMean Reduction = iota
	// ReduceSum totals same-day samples (power output).
	ReduceSum
)

type dayAccum struct {
	sum float64
	n   int
}

// AggregateDaily reduces raw samples to one value per calendar day.
// Non-finite values are excluded before reduction.
func AggregateDaily(samples []Sample, red Reduction) DailySeries {
	accum := make(map[time.Time]*dayAccum)
	for _, s := range samples {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			continue
		}
		day := Day(s.Timestamp)
		a, ok := accum[day]
		if !ok {
			a = &dayAccum{}
			accum[day] = a
		}
		a.sum += s.Value
		a.n++
	}

	out := make(DailySeries, 0, len(accum))
	for day, a := range accum {
		value := a.sum
		if red == ReduceMean {
			value = a.sum / float64(a.n)
		}
		out = append(out, DayValue{Date: day, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SumSeries combines several daily series into one by summing values per
// date. A date present in any input appears in the output; inputs missing
// that date simply contribute nothing. Used for multi-river views where
// per-river daily means are summed into a single combined series.
func SumSeries(series ...DailySeries) DailySeries {
	totals := make(map[time.Time]float64)
	for _, s := range series {
		for _, dv := range s {
			totals[dv.Date] += dv.Value
		}
	}

	out := make(DailySeries, 0, len(totals))
	for day, total := range totals {
		out = append(out, DayValue{Date: day, Value: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
