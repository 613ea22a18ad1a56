package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinSample is the default floor below which correlation statistics are not
// computed: coefficients over fewer aligned days are unreliable and
// misleading.
const MinSample = 10

// Result carries the correlation and regression statistics for one aligned
// pair of daily series. Value B is regressed on value A.
type Result struct {
	PearsonR  float64 `json:"pearson_r"`
	PearsonP  float64 `json:"pearson_p"`
	SpearmanR float64 `json:"spearman_r"`
	SpearmanP float64 `json:"spearman_p"`
	R2        float64 `json:"r2"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	N         int     `json:"n"`
}

// Correlate computes Pearson, Spearman and OLS statistics over aligned
// pairs. It returns nil when fewer than minSample rows are available or the
// input is degenerate (e.g. a constant series, where correlation is
// undefined); absence of a result is a normal terminal state, not an error.
func Correlate(pairs []AlignedPair, minSample int) *Result {
	if minSample < 3 {
		minSample = 3
	}
	if len(pairs) < minSample {
		return nil
	}

	n := len(pairs)
	x := make([]float64, n)
	y := make([]float64, n)
	for i, p := range pairs {
		x[i] = p.A
		y[i] = p.B
	}

	pearson := stat.Correlation(x, y, nil)
	if math.IsNaN(pearson) {
		return nil
	}

	spearman := stat.Correlation(ranks(x), ranks(y), nil)
	if math.IsNaN(spearman) {
		return nil
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, intercept, slope)
	if math.IsNaN(slope) || math.IsNaN(intercept) {
		return nil
	}

	return &Result{
		PearsonR:  pearson,
		PearsonP:  twoSidedP(pearson, n),
		SpearmanR: spearman,
		SpearmanP: twoSidedP(spearman, n),
		R2:        r2,
		Slope:     slope,
		Intercept: intercept,
		N:         n,
	}
}

// twoSidedP is the two-sided p-value for a correlation coefficient r over n
// samples, using the Student's t approximation with n-2 degrees of freedom.
func twoSidedP(r float64, n int) float64 {
	df := float64(n - 2)
	denom := 1 - r*r
	if denom <= 0 {
		// |r| == 1: the t statistic diverges.
		return 0
	}
	t := r * math.Sqrt(df/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

// ranks replaces values with their 1-based ranks, averaging ties.
func ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })

	out := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && values[idx[j]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2 // mean of ranks i+1 .. j
		for k := i; k < j; k++ {
			out[idx[k]] = avg
		}
		i = j
	}
	return out
}
