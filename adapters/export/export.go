// Package export serializes analysis reports to flat tabular formats for
// download. It never re-derives statistics; every cell comes straight from
// the engine's result records.
package export

import (
	"fmt"
	"strconv"

	"cohortlens/domain/stats"
	"cohortlens/internal/analysis"
)

// comparisonHeader is the flat row shape consumed by spreadsheet users:
// one row per metric-group pair, with the shared test statistics repeated
// on both rows.
var comparisonHeader = []string{
	"metric",
	"group",
	"n",
	"mean",
	"std_dev",
	"t_statistic",
	"p_value",
	"effect_size",
	"magnitude",
	"significant",
}

// ComparisonRows flattens a report into header + data rows.
func ComparisonRows(report *analysis.CohortReport) [][]string {
	rows := [][]string{comparisonHeader}
	for _, r := range report.Results {
		rows = append(rows,
			summaryRow(r, r.GroupA),
			summaryRow(r, r.GroupB),
		)
	}
	return rows
}

func summaryRow(r stats.ComparisonResult, group stats.DescriptiveSummary) []string {
	return []string{
		r.Metric.String(),
		string(group.Cohort),
		strconv.Itoa(group.N),
		formatFloat(group.Mean),
		formatFloat(group.StdDev),
		formatFloat(r.TStatistic),
		formatFloat(r.PValue),
		formatFloat(r.EffectSize),
		string(r.Magnitude),
		strconv.FormatBool(r.Significant),
	}
}

// correlationHeader is the flat row shape for bivariate results.
var correlationHeader = []string{
	"metric_x",
	"metric_y",
	"cohort",
	"n",
	"r",
	"p_value",
	"strength",
	"significant",
}

// CorrelationRows flattens correlation results into header + data rows.
func CorrelationRows(results []stats.CorrelationResult) [][]string {
	rows := [][]string{correlationHeader}
	for _, r := range results {
		rows = append(rows, []string{
			r.MetricX.String(),
			r.MetricY.String(),
			string(r.Cohort),
			strconv.Itoa(r.N),
			formatFloat(r.R),
			formatFloat(r.PValue),
			string(r.Strength),
			strconv.FormatBool(r.Significant),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
