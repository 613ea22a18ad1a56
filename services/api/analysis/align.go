package analysis

import (
	"math"
	"time"
)

// AlignedPair is one date common to two daily series with both values.
type AlignedPair struct {
	Date time.Time `json:"date"`
	A    float64   `json:"value_a"`
	B    float64   `json:"value_b"`
}

// Align inner-joins two daily series on date. Dates present in only one
// input are dropped, never imputed, as are rows where either value is not
// finite. The result is sorted by date ascending. An empty result is a
// valid state; the caller checks the count.
func Align(a, b DailySeries) []AlignedPair {
	byDate := make(map[time.Time]float64, len(b))
	for _, dv := range b {
		byDate[dv.Date] = dv.Value
	}

	out := make([]AlignedPair, 0, min(len(a), len(b)))
	for _, dv := range a {
		vb, ok := byDate[dv.Date]
		if !ok {
			continue
		}
		if math.IsNaN(dv.Value) || math.IsNaN(vb) {
			continue
		}
		out = append(out, AlignedPair{Date: dv.Date, A: dv.Value, B: vb})
	}
	return out
}
