package analysis

import (
	"math"
	"testing"
	"time"
)

func ts(day string, hour int) time.Time {
	t, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func date(day string) time.Time {
	return ts(day, 0)
}

func TestAggregateDailyMean(t *testing.T) {
	samples := []Sample{
		{Timestamp: ts("2021-01-01", 2), Value: 10},
		{Timestamp: ts("2021-01-01", 14), Value: 20},
		{Timestamp: ts("2021-01-02", 9), Value: 7},
	}

	got := AggregateDaily(samples, ReduceMean)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got))
	}
	if !got[0].Date.Equal(date("2021-01-01")) || got[0].Value != 15 {
		t.Errorf("day 1 = %v %v, want 2021-01-01 15", got[0].Date, got[0].Value)
	}
	if !got[1].Date.Equal(date("2021-01-02")) || got[1].Value != 7 {
		t.Errorf("day 2 = %v %v, want 2021-01-02 7", got[1].Date, got[1].Value)
	}
}

func TestAggregateDailySum(t *testing.T) {
	samples := []Sample{
		{Timestamp: ts("2021-03-05", 0), Value: 100},
		{Timestamp: ts("2021-03-05", 12), Value: 250},
		{Timestamp: ts("2021-03-05", 23), Value: 50},
	}

	got := AggregateDaily(samples, ReduceSum)
	if len(got) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got))
	}
	if got[0].Value != 400 {
		t.Errorf("sum = %v, want 400", got[0].Value)
	}
}

func TestAggregateDailySkipsNonFinite(t *testing.T) {
	samples := []Sample{
		{Timestamp: ts("2021-01-01", 1), Value: math.NaN()},
		{Timestamp: ts("2021-01-01", 2), Value: math.Inf(1)},
		{Timestamp: ts("2021-01-01", 3), Value: 4},
	}

	got := AggregateDaily(samples, ReduceMean)
	if len(got) != 1 || got[0].Value != 4 {
		t.Fatalf("expected single clean value 4, got %v", got)
	}

	if got := AggregateDaily([]Sample{{Timestamp: ts("2021-01-01", 1), Value: math.NaN()}}, ReduceSum); len(got) != 0 {
		t.Fatalf("all-NaN input should yield empty series, got %v", got)
	}
}

func TestAggregateDailySorted(t *testing.T) {
	samples := []Sample{
		{Timestamp: ts("2021-01-03", 0), Value: 3},
		{Timestamp: ts("2021-01-01", 0), Value: 1},
		{Timestamp: ts("2021-01-02", 0), Value: 2},
	}

	got := AggregateDaily(samples, ReduceSum)
	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.Before(got[i].Date) {
			t.Fatalf("series not sorted ascending: %v", got)
		}
	}
}

func TestSumSeries(t *testing.T) {
	a := DailySeries{
		{Date: date("2021-01-01"), Value: 1},
		{Date: date("2021-01-02"), Value: 2},
	}
	b := DailySeries{
		{Date: date("2021-01-02"), Value: 10},
		{Date: date("2021-01-03"), Value: 20},
	}

	got := SumSeries(a, b)
	want := DailySeries{
		{Date: date("2021-01-01"), Value: 1},
		{Date: date("2021-01-02"), Value: 12},
		{Date: date("2021-01-03"), Value: 20},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date) || got[i].Value != want[i].Value {
			t.Errorf("day %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClip(t *testing.T) {
	s := DailySeries{
		{Date: date("2021-01-01"), Value: 1},
		{Date: date("2021-01-02"), Value: 2},
		{Date: date("2021-01-03"), Value: 3},
	}

	got := s.Clip(date("2021-01-02"), date("2021-01-03"))
	if len(got) != 2 || !got[0].Date.Equal(date("2021-01-02")) {
		t.Fatalf("clip = %v", got)
	}
}
