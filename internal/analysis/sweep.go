// Package analysis runs batch cohort comparisons: one two-sample test per
// metric, executed concurrently, rolled up into a report with an overall
// significance summary. A precondition failure on one metric is recorded
// and never aborts the rest of the sweep.
package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"cohortlens/adapters/stats/engine"
	"cohortlens/domain/core"
	"cohortlens/domain/stats"
	"cohortlens/internal/dataset"
	"cohortlens/internal/logging"
)

// defaultWorkers caps sweep concurrency; comparisons are cheap, so a small
// pool keeps scheduling overhead below the work itself.
const defaultWorkers = 4

// SkippedMetric records why one metric produced no comparison.
type SkippedMetric struct {
	Metric core.MetricKey `json:"metric"`
	Reason string         `json:"reason"`
}

// Summary is the roll-up block of a report.
type Summary struct {
	TotalMetrics       int     `json:"total_metrics"`
	SignificantCount   int     `json:"significant_findings"`
	PercentSignificant float64 `json:"percentage_significant"`
}

// CohortReport is the output of one sweep. Results are ordered by the
// requested metric list, skipped metrics excluded.
type CohortReport struct {
	ID          core.AnalysisID          `json:"id"`
	GeneratedAt core.Timestamp           `json:"generated_at"`
	GroupA      stats.Cohort             `json:"group_a"`
	GroupB      stats.Cohort             `json:"group_b"`
	Results     []stats.ComparisonResult `json:"results"`
	Skipped     []SkippedMetric          `json:"skipped,omitempty"`
	Summary     Summary                  `json:"summary"`
}

// Sweeper runs batch comparisons through one engine.
type Sweeper struct {
	engine  *engine.Engine
	workers int
	log     *logging.Logger
}

// NewSweeper creates a sweeper with default concurrency.
func NewSweeper(e *engine.Engine) *Sweeper {
	return &Sweeper{engine: e, workers: defaultWorkers, log: logging.New("analysis")}
}

// CompareCohorts compares groupA against groupB across the given metrics.
// Metrics that fail their statistical preconditions (or are absent from the
// table) are reported in Skipped; any other failure aborts the sweep.
func (s *Sweeper) CompareCohorts(ctx context.Context, tbl *dataset.Table, groupA, groupB stats.Cohort, metrics []core.MetricKey) (*CohortReport, error) {
	type outcome struct {
		result  *stats.ComparisonResult
		skipped *SkippedMetric
	}
	outcomes := make([]outcome, len(metrics))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, metric := range metrics {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := s.compareOne(tbl, groupA, groupB, metric)
			switch {
			case err == nil:
				outcomes[i] = outcome{result: result}
			case core.IsPreconditionError(err) || core.IsNotFoundError(err):
				s.log.Debug("skipping %s: %v", metric, err)
				outcomes[i] = outcome{skipped: &SkippedMetric{Metric: metric, Reason: err.Error()}}
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &CohortReport{
		ID:          core.NewAnalysisID(),
		GeneratedAt: core.Now(),
		GroupA:      groupA,
		GroupB:      groupB,
	}
	for _, o := range outcomes {
		if o.result != nil {
			report.Results = append(report.Results, *o.result)
		}
		if o.skipped != nil {
			report.Skipped = append(report.Skipped, *o.skipped)
		}
	}
	report.Summary = summarize(report.Results)

	s.log.Info("sweep %s: %d compared, %d skipped, %d significant",
		report.ID, len(report.Results), len(report.Skipped), report.Summary.SignificantCount)
	return report, nil
}

func (s *Sweeper) compareOne(tbl *dataset.Table, groupA, groupB stats.Cohort, metric core.MetricKey) (*stats.ComparisonResult, error) {
	sampleA, err := tbl.Sample(metric, groupA)
	if err != nil {
		return nil, err
	}
	sampleB, err := tbl.Sample(metric, groupB)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Compare(sampleA, sampleB)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func summarize(results []stats.ComparisonResult) Summary {
	significant := 0
	for _, r := range results {
		if r.Significant {
			significant++
		}
	}
	pct := 0.0
	if len(results) > 0 {
		pct = math.Round(float64(significant)/float64(len(results))*1000) / 10
	}
	return Summary{
		TotalMetrics:       len(results),
		SignificantCount:   significant,
		PercentSignificant: pct,
	}
}
