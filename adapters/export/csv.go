package export

import (
	"encoding/csv"
	"io"

	"cohortlens/domain/stats"
	"cohortlens/internal/analysis"
)

// WriteComparisonsCSV streams a report's flattened comparison rows.
func WriteComparisonsCSV(w io.Writer, report *analysis.CohortReport) error {
	return writeCSV(w, ComparisonRows(report))
}

// WriteCorrelationsCSV streams flattened correlation rows.
func WriteCorrelationsCSV(w io.Writer, results []stats.CorrelationResult) error {
	return writeCSV(w, CorrelationRows(results))
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
