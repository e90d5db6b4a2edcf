package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cohortlens/domain/stats"
	"cohortlens/internal/analysis"
)

const comparisonSheet = "Comparisons"
const correlationSheet = "Correlations"

// WriteComparisonsExcel writes a single-sheet workbook of flattened
// comparison rows.
func WriteComparisonsExcel(w io.Writer, report *analysis.CohortReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := fillSheet(f, comparisonSheet, ComparisonRows(report)); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteCorrelationsExcel writes a single-sheet workbook of flattened
// correlation rows.
func WriteCorrelationsExcel(w io.Writer, results []stats.CorrelationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := fillSheet(f, correlationSheet, CorrelationRows(results)); err != nil {
		return err
	}
	return f.Write(w)
}

// fillSheet renames the default sheet and writes rows starting at A1.
func fillSheet(f *excelize.File, name string, rows [][]string) error {
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}
