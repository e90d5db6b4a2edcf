package engine

import (
	"iter"
	"math"
	"time"

	"cohortlens/domain/core"
	domstats "cohortlens/domain/stats"
)

// DetectAnomalies flags observations whose z-score against the reference
// band clears the mild threshold. The reference is validated eagerly; the
// returned sequence is lazy, single-pass, and yields flags in input order.
// Observations below the mild threshold are omitted entirely, so callers
// only ever see actionable flags.
func (e *Engine) DetectAnomalies(s domstats.Sample, refMean, refStd float64) (iter.Seq[domstats.AnomalyFlag], error) {
	if refStd == 0 || math.IsNaN(refStd) || math.IsInf(refStd, 0) {
		return nil, core.NewDegenerateReferenceError(refStd)
	}

	bands := e.cfg.Anomaly
	return func(yield func(domstats.AnomalyFlag) bool) {
		for i, v := range s.Values {
			z := (v - refMean) / refStd
			severity, flagged := bands.Classify(z)
			if !flagged {
				continue
			}

			var date time.Time
			if i < len(s.Dates) {
				date = s.Dates[i]
			}
			flag := domstats.AnomalyFlag{
				Index:         i,
				Date:          date,
				Value:         v,
				ZScore:        z,
				ReferenceMean: refMean,
				ReferenceStd:  refStd,
				Severity:      severity,
			}
			if !yield(flag) {
				return
			}
		}
	}, nil
}

// AnomaliesAgainstCohort flags observations in s against the mean and
// sample standard deviation of a reference cohort sample. This is the usual
// dashboard flow: one participant's series checked against the cohort band.
func (e *Engine) AnomaliesAgainstCohort(s, reference domstats.Sample) ([]domstats.AnomalyFlag, error) {
	refSum, err := e.Summarize(reference)
	if err != nil {
		return nil, err
	}
	seq, err := e.DetectAnomalies(s, refSum.Mean, refSum.StdDev)
	if err != nil {
		return nil, err
	}

	var flags []domstats.AnomalyFlag
	for f := range seq {
		flags = append(flags, f)
	}
	return flags, nil
}
