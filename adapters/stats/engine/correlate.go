package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"cohortlens/domain/core"
	domstats "cohortlens/domain/stats"
)

// Correlate computes Pearson's r between two aligned measurement series
// within one cohort, with a two-sided p-value from the t-distribution
// transform of r. Indexes where either value is missing are dropped
// pairwise before anything is computed; the dropped count is reported on
// the result for auditability.
func (e *Engine) Correlate(x, y domstats.Series) (domstats.CorrelationResult, error) {
	return e.CorrelateWithin("", x, y)
}

// CorrelateWithin is Correlate with the cohort label carried onto the result.
func (e *Engine) CorrelateWithin(cohort domstats.Cohort, x, y domstats.Series) (domstats.CorrelationResult, error) {
	if len(x.Values) != len(y.Values) {
		return domstats.CorrelationResult{}, fmt.Errorf("series %s and %s are not aligned: %d vs %d values",
			x.Metric, y.Metric, len(x.Values), len(y.Values))
	}

	xs := make([]float64, 0, len(x.Values))
	ys := make([]float64, 0, len(y.Values))
	for i := range x.Values {
		if isMissingPair(x.Values[i], y.Values[i]) {
			continue
		}
		xs = append(xs, x.Values[i])
		ys = append(ys, y.Values[i])
	}
	dropped := len(x.Values) - len(xs)

	if len(xs) < minCorrelateN {
		label := fmt.Sprintf("%s x %s", x.Metric, y.Metric)
		return domstats.CorrelationResult{}, core.NewInsufficientDataError(label, len(xs), minCorrelateN)
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		// Zero variance in either series; there is no correlation to report.
		label := fmt.Sprintf("%s x %s", x.Metric, y.Metric)
		return domstats.CorrelationResult{}, core.NewDegenerateVarianceError(label, "constant series")
	}

	n := float64(len(xs))
	pValue := pearsonPValue(r, n)

	return domstats.CorrelationResult{
		MetricX:      x.Metric,
		MetricY:      y.Metric,
		Cohort:       cohort,
		Alpha:        e.cfg.Alpha,
		R:            r,
		PValue:       pValue,
		N:            len(xs),
		PairsDropped: dropped,
		Significant:  pValue < e.cfg.Alpha,
		Strength:     e.cfg.Strength.Classify(r),
	}, nil
}

// pearsonPValue computes the two-sided p-value for r via the standard
// t-distribution transform t = r*sqrt((n-2)/(1-r^2)) with n-2 degrees of
// freedom. A numerically perfect |r| = 1 is exactly determined and gets p=0.
func pearsonPValue(r, n float64) float64 {
	denom := 1 - r*r
	if denom <= 0 {
		return 0
	}
	t := r * math.Sqrt((n-2)/denom)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
	return 2 * tDist.CDF(-math.Abs(t))
}

func isMissingPair(a, b float64) bool {
	return math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0)
}
