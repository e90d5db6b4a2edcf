package stats

import (
	"fmt"
	"math"
	"time"

	"cohortlens/domain/core"
)

// Cohort labels one of the two compared groups.
type Cohort string

const (
	CohortClinical Cohort = "clinical"
	CohortControl  Cohort = "control"
)

// ParseCohort validates a cohort label from external input. Any non-empty
// label is accepted so the engine stays usable for studies with other
// group names; the constants above are the dashboard defaults.
func ParseCohort(s string) (Cohort, error) {
	if s == "" {
		return "", fmt.Errorf("cohort label cannot be empty")
	}
	return Cohort(s), nil
}

// Sample is a cleaned sequence of real-valued measurements for one cohort
// and one named metric. Missing values (NaN/Inf markers) are stripped once,
// at construction; RawCount preserves the pre-cleaning size so callers can
// audit how much data was dropped.
type Sample struct {
	Metric   core.MetricKey `json:"metric"`
	Cohort   Cohort         `json:"cohort"`
	Values   []float64      `json:"values"`
	Dates    []time.Time    `json:"dates,omitempty"` // optional, aligned with Values
	RawCount int            `json:"raw_count"`
}

// NewSample builds a Sample from a raw column, dropping NaN and Inf entries.
func NewSample(metric core.MetricKey, cohort Cohort, raw []float64) Sample {
	values := make([]float64, 0, len(raw))
	for _, v := range raw {
		if isMissing(v) {
			continue
		}
		values = append(values, v)
	}
	return Sample{Metric: metric, Cohort: cohort, Values: values, RawCount: len(raw)}
}

// NewDatedSample is NewSample with per-observation timestamps. dates must be
// aligned with raw; the timestamp of a dropped value is dropped with it.
func NewDatedSample(metric core.MetricKey, cohort Cohort, raw []float64, dates []time.Time) (Sample, error) {
	if len(dates) != len(raw) {
		return Sample{}, fmt.Errorf("dates length %d does not match values length %d", len(dates), len(raw))
	}
	values := make([]float64, 0, len(raw))
	kept := make([]time.Time, 0, len(raw))
	for i, v := range raw {
		if isMissing(v) {
			continue
		}
		values = append(values, v)
		kept = append(kept, dates[i])
	}
	return Sample{Metric: metric, Cohort: cohort, Values: values, Dates: kept, RawCount: len(raw)}, nil
}

// N returns the post-cleaning observation count.
func (s Sample) N() int { return len(s.Values) }

// Dropped returns how many missing values were stripped at construction.
func (s Sample) Dropped() int { return s.RawCount - len(s.Values) }

// Label renders the sample's identity for error messages.
func (s Sample) Label() string {
	return fmt.Sprintf("%s (%s)", s.Metric, s.Cohort)
}

// Series is a raw, ordered measurement column aligned by observation index.
// Unlike Sample it keeps missing values (as NaN) so that two Series can be
// paired index-by-index for bivariate analysis.
type Series struct {
	Metric core.MetricKey `json:"metric"`
	Values []float64      `json:"values"`
}

// isMissing treats NaN and Inf as explicit missing-value markers.
func isMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// DescriptiveSummary is the read-only descriptive profile of one Sample.
// StdDev is the sample standard deviation (n-1 divisor) and is NaN when
// n=1, since a single observation carries no dispersion information.
type DescriptiveSummary struct {
	Metric   core.MetricKey `json:"metric"`
	Cohort   Cohort         `json:"cohort"`
	N        int            `json:"n"`
	Mean     float64        `json:"mean"`
	StdDev   float64        `json:"std_dev"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	Median   float64        `json:"median"`
	Q1       float64        `json:"q1"`
	Q3       float64        `json:"q3"`
	RawCount int            `json:"raw_count"`
	Dropped  int            `json:"dropped"`
}

// ComparisonResult is the output of a two-sample comparison. It is created
// per call and never mutated; the caller owns it.
type ComparisonResult struct {
	Metric core.MetricKey `json:"metric"`
	Alpha  float64        `json:"alpha"`

	GroupA DescriptiveSummary `json:"group_a"`
	GroupB DescriptiveSummary `json:"group_b"`

	TStatistic        float64 `json:"t_statistic"`
	DegreesOfFreedom  float64 `json:"degrees_of_freedom"`
	PValue            float64 `json:"p_value"`
	MeanDifference    float64 `json:"mean_difference"`    // mean(A) - mean(B)
	PercentDifference float64 `json:"percent_difference"` // relative to mean(B); NaN when mean(B)=0

	EffectSize  float64         `json:"effect_size"` // Cohen's d, sign preserved
	Magnitude   EffectMagnitude `json:"magnitude"`
	Significant bool            `json:"significant"`
	HigherMean  Cohort          `json:"higher_mean,omitempty"` // empty when means are equal
}

// CorrelationResult is the output of bivariate analysis within one sample.
type CorrelationResult struct {
	MetricX core.MetricKey `json:"metric_x"`
	MetricY core.MetricKey `json:"metric_y"`
	Cohort  Cohort         `json:"cohort,omitempty"`
	Alpha   float64        `json:"alpha"`

	R            float64 `json:"r"`
	PValue       float64 `json:"p_value"`
	N            int     `json:"n"` // pairs used after pairwise dropping
	PairsDropped int     `json:"pairs_dropped"`

	Significant bool                `json:"significant"`
	Strength    CorrelationStrength `json:"strength"`
}

// AnomalyFlag marks one observation that lies outside the reference band.
// Observations below the mild threshold produce no flag at all.
type AnomalyFlag struct {
	Index         int       `json:"index"`
	Date          time.Time `json:"date,omitempty"`
	Value         float64   `json:"value"`
	ZScore        float64   `json:"z_score"`
	ReferenceMean float64   `json:"reference_mean"`
	ReferenceStd  float64   `json:"reference_std"`
	Severity      Severity  `json:"severity"`
}
