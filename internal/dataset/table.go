// Package dataset is the data-provisioning collaborator: it loads tabular
// time-series panels (one row per participant-day, one numeric column per
// metric) and hands the engine typed samples and aligned series. Missing
// values are carried as NaN inside the table and stripped exactly once, at
// Sample construction.
package dataset

import (
	"sort"
	"time"

	"cohortlens/domain/core"
	"cohortlens/domain/stats"
)

// Observation is one participant-day of measurements. Values is aligned
// with the owning Table's Metrics; NaN marks a missing measurement.
type Observation struct {
	Participant core.ParticipantID
	Cohort      stats.Cohort
	Date        time.Time
	Values      []float64
}

// Table is an immutable in-memory panel of observations.
type Table struct {
	Metrics      []core.MetricKey
	Observations []Observation
}

// metricIndex returns the column index of a metric, or -1.
func (t *Table) metricIndex(m core.MetricKey) int {
	for i, key := range t.Metrics {
		if key == m {
			return i
		}
	}
	return -1
}

// HasMetric reports whether the table carries the named metric.
func (t *Table) HasMetric(m core.MetricKey) bool {
	return t.metricIndex(m) >= 0
}

// Cohorts returns the distinct cohort labels present, sorted.
func (t *Table) Cohorts() []stats.Cohort {
	seen := make(map[stats.Cohort]bool)
	for _, o := range t.Observations {
		seen[o.Cohort] = true
	}
	out := make([]stats.Cohort, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Participants returns the distinct participant IDs in a cohort, sorted.
func (t *Table) Participants(c stats.Cohort) []core.ParticipantID {
	seen := make(map[core.ParticipantID]bool)
	for _, o := range t.Observations {
		if o.Cohort == c {
			seen[o.Participant] = true
		}
	}
	out := make([]core.ParticipantID, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sample extracts the cleaned, dated sample of one metric for one cohort.
func (t *Table) Sample(m core.MetricKey, c stats.Cohort) (stats.Sample, error) {
	idx := t.metricIndex(m)
	if idx < 0 {
		return stats.Sample{}, core.ErrMetricNotFound
	}

	var raw []float64
	var dates []time.Time
	for _, o := range t.Observations {
		if o.Cohort != c {
			continue
		}
		raw = append(raw, o.Values[idx])
		dates = append(dates, o.Date)
	}
	if len(raw) == 0 {
		return stats.Sample{}, core.ErrCohortNotFound
	}
	return stats.NewDatedSample(m, c, raw, dates)
}

// ParticipantSample extracts one participant's cleaned, dated series for a
// metric, typed with the participant's cohort.
func (t *Table) ParticipantSample(m core.MetricKey, p core.ParticipantID) (stats.Sample, error) {
	idx := t.metricIndex(m)
	if idx < 0 {
		return stats.Sample{}, core.ErrMetricNotFound
	}

	var raw []float64
	var dates []time.Time
	var cohort stats.Cohort
	for _, o := range t.Observations {
		if o.Participant != p {
			continue
		}
		cohort = o.Cohort
		raw = append(raw, o.Values[idx])
		dates = append(dates, o.Date)
	}
	if len(raw) == 0 {
		return stats.Sample{}, core.ErrNotFound
	}
	return stats.NewDatedSample(m, cohort, raw, dates)
}

// Series extracts the raw (missing-preserving) column of one metric for one
// cohort, aligned by observation order so two Series from the same cohort
// pair index-by-index.
func (t *Table) Series(m core.MetricKey, c stats.Cohort) (stats.Series, error) {
	idx := t.metricIndex(m)
	if idx < 0 {
		return stats.Series{}, core.ErrMetricNotFound
	}

	var values []float64
	for _, o := range t.Observations {
		if o.Cohort != c {
			continue
		}
		values = append(values, o.Values[idx])
	}
	if len(values) == 0 {
		return stats.Series{}, core.ErrCohortNotFound
	}
	return stats.Series{Metric: m, Values: values}, nil
}
