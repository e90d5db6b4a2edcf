package engine

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"cohortlens/domain/core"
	domstats "cohortlens/domain/stats"
)

// Summarize computes the descriptive profile of one sample. The sample is
// already cleaned (NewSample strips missing markers); if nothing survived
// cleaning the call fails with ErrEmptySample.
func (e *Engine) Summarize(s domstats.Sample) (domstats.DescriptiveSummary, error) {
	if s.N() < minSummarizeN {
		return domstats.DescriptiveSummary{}, core.NewEmptySampleError(s.Label())
	}

	mean, err := stats.Mean(s.Values)
	if err != nil {
		return domstats.DescriptiveSummary{}, err
	}
	min, err := stats.Min(s.Values)
	if err != nil {
		return domstats.DescriptiveSummary{}, err
	}
	max, err := stats.Max(s.Values)
	if err != nil {
		return domstats.DescriptiveSummary{}, err
	}
	median, err := stats.Median(s.Values)
	if err != nil {
		return domstats.DescriptiveSummary{}, err
	}

	// Sample standard deviation (n-1 divisor). For n=1 dispersion is
	// undefined and reported as NaN rather than a misleading zero.
	sd := math.NaN()
	if s.N() >= 2 {
		sd, err = stats.StandardDeviationSample(s.Values)
		if err != nil {
			return domstats.DescriptiveSummary{}, err
		}
	}

	sorted := append([]float64(nil), s.Values...)
	sort.Float64s(sorted)

	return domstats.DescriptiveSummary{
		Metric:   s.Metric,
		Cohort:   s.Cohort,
		N:        s.N(),
		Mean:     mean,
		StdDev:   sd,
		Min:      min,
		Max:      max,
		Median:   median,
		Q1:       quantile(sorted, 0.25),
		Q3:       quantile(sorted, 0.75),
		RawCount: s.RawCount,
		Dropped:  s.Dropped(),
	}, nil
}

// quantile computes the p-quantile of a sorted slice with linear
// interpolation between order statistics (the numpy/R type-7 method).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
