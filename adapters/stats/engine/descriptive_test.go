package engine

import (
	"errors"
	"math"
	"testing"

	"cohortlens/domain/core"
	domstats "cohortlens/domain/stats"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSummarize_KnownValues(t *testing.T) {
	e := NewDefault()
	s := domstats.NewSample("minutes_asleep", domstats.CohortControl, []float64{1, 2, 3, 4})

	sum, err := e.Summarize(s)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if sum.N != 4 {
		t.Errorf("expected n=4, got %d", sum.N)
	}
	if !almostEqual(sum.Mean, 2.5, 1e-12) {
		t.Errorf("expected mean=2.5, got %f", sum.Mean)
	}
	if !almostEqual(sum.Median, 2.5, 1e-12) {
		t.Errorf("expected median=2.5, got %f", sum.Median)
	}
	// Sample standard deviation: sqrt(5/3)
	if !almostEqual(sum.StdDev, math.Sqrt(5.0/3.0), 1e-9) {
		t.Errorf("expected sd=%f, got %f", math.Sqrt(5.0/3.0), sum.StdDev)
	}
	if sum.Min != 1 || sum.Max != 4 {
		t.Errorf("expected min=1 max=4, got %f/%f", sum.Min, sum.Max)
	}
	// Linear-interpolation quantiles on {1,2,3,4}
	if !almostEqual(sum.Q1, 1.75, 1e-12) {
		t.Errorf("expected q1=1.75, got %f", sum.Q1)
	}
	if !almostEqual(sum.Q3, 3.25, 1e-12) {
		t.Errorf("expected q3=3.25, got %f", sum.Q3)
	}
}

func TestSummarize_EmptySampleFails(t *testing.T) {
	e := NewDefault()

	for name, raw := range map[string][]float64{
		"empty":       {},
		"all_missing": {math.NaN(), math.NaN()},
	} {
		s := domstats.NewSample("steps", domstats.CohortClinical, raw)
		_, err := e.Summarize(s)
		if !errors.Is(err, core.ErrEmptySample) {
			t.Errorf("%s: expected ErrEmptySample, got %v", name, err)
		}
	}
}

func TestSummarize_SingleObservationHasUndefinedSpread(t *testing.T) {
	e := NewDefault()
	s := domstats.NewSample("steps", domstats.CohortControl, []float64{42})

	sum, err := e.Summarize(s)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.N != 1 {
		t.Fatalf("expected n=1, got %d", sum.N)
	}
	if !math.IsNaN(sum.StdDev) {
		t.Errorf("expected NaN sd for n=1, got %f", sum.StdDev)
	}
	if sum.Mean != 42 || sum.Median != 42 || sum.Q1 != 42 || sum.Q3 != 42 {
		t.Errorf("expected all point statistics = 42, got %+v", sum)
	}
}

func TestSummarize_MissingValuesCleanedOnceWithAuditCounts(t *testing.T) {
	e := NewDefault()
	raw := []float64{10, math.NaN(), 20, math.Inf(1), 30}
	s := domstats.NewSample("calories", domstats.CohortClinical, raw)

	sum, err := e.Summarize(s)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.N != 3 {
		t.Errorf("expected n=3 after cleaning, got %d", sum.N)
	}
	if sum.RawCount != 5 || sum.Dropped != 2 {
		t.Errorf("expected raw=5 dropped=2, got raw=%d dropped=%d", sum.RawCount, sum.Dropped)
	}
	if !almostEqual(sum.Mean, 20, 1e-12) {
		t.Errorf("expected mean=20, got %f", sum.Mean)
	}
}

func TestSummarize_QuantileOrderingHolds(t *testing.T) {
	e := NewDefault()

	cases := [][]float64{
		{3, 1, 4, 1, 5, 9, 2, 6},
		{0.1, 0.2, 0.3},
		{100, 100, 100, 101},
		{-5, -2, 0, 3, 8, 13},
	}
	for _, values := range cases {
		s := domstats.NewSample("m", domstats.CohortControl, values)
		sum, err := e.Summarize(s)
		if err != nil {
			t.Fatalf("summarize %v: %v", values, err)
		}
		if sum.Q1 > sum.Median || sum.Median > sum.Q3 {
			t.Errorf("quantile ordering violated for %v: q1=%f median=%f q3=%f",
				values, sum.Q1, sum.Median, sum.Q3)
		}
	}
}
