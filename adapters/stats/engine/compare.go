package engine

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"cohortlens/domain/core"
	domstats "cohortlens/domain/stats"
)

// Compare runs an independent two-sample comparison between cohorts a and b:
// Welch's t-test (no equal-variance assumption), two-sided p-value from the
// t-distribution with Welch-Satterthwaite degrees of freedom, and Cohen's d
// on the pooled standard deviation.
//
// Preconditions: each sample needs n >= 2 after cleaning, and at least one
// group must carry variance. Failures are reported as typed errors, never
// as substituted default statistics.
func (e *Engine) Compare(a, b domstats.Sample) (domstats.ComparisonResult, error) {
	if a.N() < minCompareN {
		return domstats.ComparisonResult{}, core.NewInsufficientDataError(a.Label(), a.N(), minCompareN)
	}
	if b.N() < minCompareN {
		return domstats.ComparisonResult{}, core.NewInsufficientDataError(b.Label(), b.N(), minCompareN)
	}

	sumA, err := e.Summarize(a)
	if err != nil {
		return domstats.ComparisonResult{}, err
	}
	sumB, err := e.Summarize(b)
	if err != nil {
		return domstats.ComparisonResult{}, err
	}

	nA, nB := float64(sumA.N), float64(sumB.N)
	varA := sumA.StdDev * sumA.StdDev
	varB := sumB.StdDev * sumB.StdDev

	// Standard error of the mean difference under unequal variances.
	seSq := varA/nA + varB/nB
	if seSq == 0 {
		return domstats.ComparisonResult{}, core.NewDegenerateVarianceError(a.Label(), b.Label())
	}

	tStat := (sumA.Mean - sumB.Mean) / math.Sqrt(seSq)

	// Welch-Satterthwaite degrees of freedom.
	df := seSq * seSq / (math.Pow(varA/nA, 2)/(nA-1) + math.Pow(varB/nB, 2)/(nB-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * tDist.CDF(-math.Abs(tStat))

	// Cohen's d with pooled standard deviation. seSq > 0 guarantees a
	// positive pooled variance.
	pooled := math.Sqrt(((nA-1)*varA + (nB-1)*varB) / (nA + nB - 2))
	d := (sumA.Mean - sumB.Mean) / pooled

	meanDiff := sumA.Mean - sumB.Mean
	pctDiff := math.NaN()
	if sumB.Mean != 0 {
		pctDiff = meanDiff / sumB.Mean * 100
	}

	var higher domstats.Cohort
	switch {
	case sumA.Mean > sumB.Mean:
		higher = a.Cohort
	case sumB.Mean > sumA.Mean:
		higher = b.Cohort
	}

	return domstats.ComparisonResult{
		Metric:            a.Metric,
		Alpha:             e.cfg.Alpha,
		GroupA:            sumA,
		GroupB:            sumB,
		TStatistic:        tStat,
		DegreesOfFreedom:  df,
		PValue:            pValue,
		MeanDifference:    meanDiff,
		PercentDifference: pctDiff,
		EffectSize:        d,
		Magnitude:         e.cfg.Effect.Classify(d),
		Significant:       pValue < e.cfg.Alpha,
		HigherMean:        higher,
	}, nil
}
