package analysis

import (
	"math"
	"testing"
	"time"
)

func pairsOn(n int, f func(i int) (float64, float64)) []AlignedPair {
	out := make([]AlignedPair, 0, n)
	base := date("2021-01-01")
	for i := 0; i < n; i++ {
		a, b := f(i)
		out = append(out, AlignedPair{Date: base.AddDate(0, 0, i), A: a, B: b})
	}
	return out
}

func TestCorrelateBelowFloor(t *testing.T) {
	pairs := pairsOn(9, func(i int) (float64, float64) {
		return float64(i), float64(2 * i)
	})
	if res := Correlate(pairs, MinSample); res != nil {
		t.Fatalf("expected no result for n=9, got %+v", res)
	}
}

func TestCorrelatePerfectLinear(t *testing.T) {
	// value_b = 2*value_a + 3, no noise.
	pairs := pairsOn(12, func(i int) (float64, float64) {
		a := float64(i) + 0.5
		return a, 2*a + 3
	})

	res := Correlate(pairs, MinSample)
	if res == nil {
		t.Fatal("expected a result")
	}
	const tol = 1e-9
	if math.Abs(res.PearsonR-1) > tol {
		t.Errorf("pearson r = %v, want 1", res.PearsonR)
	}
	if math.Abs(res.Slope-2) > tol {
		t.Errorf("slope = %v, want 2", res.Slope)
	}
	if math.Abs(res.Intercept-3) > tol {
		t.Errorf("intercept = %v, want 3", res.Intercept)
	}
	if math.Abs(res.R2-1) > tol {
		t.Errorf("r2 = %v, want 1", res.R2)
	}
	if math.Abs(res.SpearmanR-1) > tol {
		t.Errorf("spearman r = %v, want 1", res.SpearmanR)
	}
	if res.PearsonP > 1e-9 {
		t.Errorf("pearson p = %v, want ~0 for |r|=1", res.PearsonP)
	}
	if res.N != 12 {
		t.Errorf("n = %d, want 12", res.N)
	}
}

func TestCorrelateConstantSeries(t *testing.T) {
	pairs := pairsOn(15, func(i int) (float64, float64) {
		return 5.0, float64(i)
	})
	if res := Correlate(pairs, MinSample); res != nil {
		t.Fatalf("constant value_a must yield no result, got %+v", res)
	}
}

func TestCorrelateNegative(t *testing.T) {
	pairs := pairsOn(20, func(i int) (float64, float64) {
		return float64(i), -3 * float64(i)
	})
	res := Correlate(pairs, MinSample)
	if res == nil {
		t.Fatal("expected a result")
	}
	if math.Abs(res.PearsonR+1) > 1e-9 {
		t.Errorf("pearson r = %v, want -1", res.PearsonR)
	}
	if math.Abs(res.Slope+3) > 1e-9 {
		t.Errorf("slope = %v, want -3", res.Slope)
	}
}

func TestCorrelatePValueSignificance(t *testing.T) {
	// A noisy but strongly correlated pair should produce a small p-value;
	// an uncorrelated alternating pair should not.
	noise := []float64{0.3, -0.2, 0.1, -0.4, 0.2, 0.0, -0.1, 0.4, -0.3, 0.1, 0.2, -0.2}
	strong := pairsOn(12, func(i int) (float64, float64) {
		return float64(i), 2*float64(i) + noise[i]
	})
	res := Correlate(strong, MinSample)
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.PearsonP >= 0.01 {
		t.Errorf("pearson p = %v, want < 0.01 for a strong correlation", res.PearsonP)
	}
	if res.PearsonP < 0 || res.PearsonP > 1 {
		t.Errorf("p-value %v out of [0,1]", res.PearsonP)
	}
	if res.SpearmanP < 0 || res.SpearmanP > 1 {
		t.Errorf("spearman p-value %v out of [0,1]", res.SpearmanP)
	}
}

func TestCorrelateDeterministic(t *testing.T) {
	pairs := pairsOn(16, func(i int) (float64, float64) {
		return math.Sin(float64(i)), math.Cos(float64(i) / 2)
	})
	first := Correlate(pairs, MinSample)
	second := Correlate(pairs, MinSample)
	if first == nil || second == nil {
		t.Fatal("expected results")
	}
	if *first != *second {
		t.Errorf("results differ across runs: %+v vs %+v", first, second)
	}
}

func TestRanksAveragesTies(t *testing.T) {
	got := ranks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranks = %v, want %v", got, want)
		}
	}
}

// Pipeline scenario: 20 daily mean water levels rising 10.0..29.0 for one
// river, power sums at exactly five times the water level.
func TestPipelineLinearScenario(t *testing.T) {
	var waterSamples, powerSamples []Sample
	base := date("2021-01-01")
	for i := 0; i < 20; i++ {
		day := base.AddDate(0, 0, i)
		level := 10.0 + float64(i)
		// two sub-daily readings averaging to the target level
		waterSamples = append(waterSamples,
			Sample{Timestamp: day.Add(6 * time.Hour), Value: level - 0.5},
			Sample{Timestamp: day.Add(18 * time.Hour), Value: level + 0.5},
		)
		// hourly-like readings summing to 5*level
		powerSamples = append(powerSamples,
			Sample{Timestamp: day.Add(1 * time.Hour), Value: 2 * level},
			Sample{Timestamp: day.Add(13 * time.Hour), Value: 3 * level},
		)
	}

	water := AggregateDaily(waterSamples, ReduceMean)
	power := AggregateDaily(powerSamples, ReduceSum)
	pairs := Align(water, power)
	if len(pairs) != 20 {
		t.Fatalf("aligned = %d, want 20", len(pairs))
	}

	res := Correlate(pairs, MinSample)
	if res == nil {
		t.Fatal("expected a result")
	}
	if math.Abs(res.PearsonR-1) > 1e-9 {
		t.Errorf("pearson r = %v, want 1", res.PearsonR)
	}
	if math.Abs(res.Slope-5) > 1e-9 {
		t.Errorf("slope = %v, want 5", res.Slope)
	}
	if res.N != 20 {
		t.Errorf("n = %d, want 20", res.N)
	}
}
